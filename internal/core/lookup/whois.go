package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"
	"golang.org/x/time/rate"

	"github.com/tldsweep/tldsweep/internal/core"
)

const whoisSource = "whois"

// Registry responses that indicate the domain IS registered. Checked
// first; registrar fields are more reliable than "not found" phrasing.
var whoisTakenPatterns = []string{
	"registrar:",
	"registrant:",
	"creation date:",
	"created:",
	"registry expiry date:",
	"expiration date:",
	"name server:",
	"nameserver:",
	"nserver:",
	"domain status:",
	"registrar iana id:",
}

// Responses that indicate the domain is NOT registered.
var whoisAvailablePatterns = []string{
	"no match for",
	"not found",
	"no entries found",
	"domain not found",
	"no data found",
	"status: free",
	"status: available",
	"no object found",
	"object does not exist",
	"the queried object does not exist",
	"no such domain",
	"domain name has not been registered",
	"no matching record",
	"is available for registration",
}

// WhoisService answers availability questions over WHOIS port 43. It is
// the fallback for TLDs without a usable RDAP endpoint. Pacer throttles
// outbound queries; registries ban chatty WHOIS clients quickly.
type WhoisService struct {
	Client *whois.Client
	Pacer  *rate.Limiter
	Clock  func() time.Time

	// Servers overrides the WHOIS server per TLD; by default the
	// client follows IANA referrals.
	Servers map[string]string

	// AvailablePatterns and TakenPatterns extend the built-in response
	// matchers for registries with unusual phrasing.
	AvailablePatterns []string
	TakenPatterns     []string
}

// NewWhoisService returns a WhoisService throttled to one query per
// second with a small burst.
func NewWhoisService() *WhoisService {
	return &WhoisService{
		Client: whois.NewClient(),
		Pacer:  rate.NewLimiter(rate.Limit(1), 3),
	}
}

// Lookup implements Service.
func (s *WhoisService) Lookup(ctx context.Context, name, tld string, timeout time.Duration) (Verdict, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	tld = core.NormalizeTLD(tld)
	domain := name + "." + tld

	if s.Pacer != nil {
		if err := s.Pacer.Wait(ctx); err != nil {
			return Verdict{}, fmt.Errorf("whois query for %s aborted: %w", domain, err)
		}
	}

	client := s.Client
	if client == nil {
		client = whois.NewClient()
	}
	if timeout > 0 {
		client = client.SetTimeout(timeout)
	}

	var (
		body string
		err  error
	)
	if server := s.serverFor(tld); server != "" {
		body, err = client.Whois(domain, server)
	} else {
		body, err = client.Whois(domain)
	}
	if err != nil {
		return Verdict{}, fmt.Errorf("whois query for %s failed: %w", domain, err)
	}

	status, ok := s.interpret(body)
	if !ok {
		return Verdict{}, fmt.Errorf("whois returned an unexpected response for %s", domain)
	}

	return Verdict{Status: status, Source: whoisSource, CheckedAt: s.now()}, nil
}

func (s *WhoisService) serverFor(tld string) string {
	if s == nil || len(s.Servers) == 0 {
		return ""
	}
	return strings.TrimSpace(s.Servers[tld])
}

// interpret maps a raw WHOIS body onto a status. Taken patterns win
// over available patterns; an unmatched body is ambiguous.
func (s *WhoisService) interpret(body string) (core.Status, bool) {
	lower := strings.ToLower(body)

	for _, pattern := range append(whoisTakenPatterns, s.TakenPatterns...) {
		if pattern != "" && strings.Contains(lower, strings.ToLower(pattern)) {
			return core.StatusTaken, true
		}
	}

	// Premium or reserved names are listed for sale, not registrable.
	if (strings.Contains(lower, "premium") || strings.Contains(lower, "platinum")) &&
		(strings.Contains(lower, "purchase") || strings.Contains(lower, "offer") || strings.Contains(lower, "reserved")) {
		return core.StatusTaken, true
	}
	if strings.Contains(lower, "this name is reserved") {
		return core.StatusTaken, true
	}

	for _, pattern := range append(whoisAvailablePatterns, s.AvailablePatterns...) {
		if pattern != "" && strings.Contains(lower, strings.ToLower(pattern)) {
			return core.StatusAvailable, true
		}
	}

	return "", false
}

func (s *WhoisService) now() time.Time {
	if s != nil && s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}
