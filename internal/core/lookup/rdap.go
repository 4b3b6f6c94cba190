package lookup

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/openrdap/rdap"

	"github.com/tldsweep/tldsweep/internal/core"
)

const rdapSource = "rdap"

// ServerSource resolves the RDAP base URLs serving a TLD.
type ServerSource interface {
	RDAPServers(ctx context.Context, tld string) ([]string, error)
}

// StaticServers is a fixed TLD-to-server map.
type StaticServers map[string][]string

// RDAPServers implements ServerSource.
func (s StaticServers) RDAPServers(_ context.Context, tld string) ([]string, error) {
	return s[core.NormalizeTLD(tld)], nil
}

// defaultRDAPServers covers the TLDs tldsweep sweeps most often so the
// RDAP backend works without a bootstrap database.
var defaultRDAPServers = StaticServers{
	"com": {"https://rdap.verisign.com/com/v1"},
	"net": {"https://rdap.verisign.com/net/v1"},
	"org": {"https://rdap.publicinterestregistry.org/rdap"},
	"io":  {"https://rdap.nic.io"},
	"co":  {"https://rdap.nic.co"},
	"app": {"https://pubapi.registry.google/rdap", "https://www.rdap.net/rdap"},
	"dev": {"https://pubapi.registry.google/rdap", "https://www.rdap.net/rdap"},
	"xyz": {"https://rdap.centralnic.com/xyz"},
	"me":  {"https://rdap.nic.me"},
	"ai":  {"https://rdap.identitydigital.services/rdap"},
}

// certain registries publish stale bootstrap entries; route them to
// known-good servers instead.
var defaultRDAPOverrides = map[string][]string{
	"app": {"https://pubapi.registry.google/rdap", "https://www.rdap.net/rdap"},
	"dev": {"https://pubapi.registry.google/rdap", "https://www.rdap.net/rdap"},
}

// RDAPService answers availability questions via the registries' RDAP
// endpoints. A 404 or ObjectDoesNotExist answer means available; a
// domain object means taken; everything else is an error for the
// caller's retry policy to chew on.
type RDAPService struct {
	Client  *rdap.Client
	Servers ServerSource
	Limiter *RateLimiter
	Clock   func() time.Time

	// Overrides routes specific TLDs to known-good RDAP servers. Keys
	// are normalized TLDs without a leading dot.
	Overrides map[string][]string
}

// Lookup implements Service.
func (s *RDAPService) Lookup(ctx context.Context, name, tld string, timeout time.Duration) (Verdict, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	tld = core.NormalizeTLD(tld)
	domain := name + "." + tld

	servers, err := s.servers(ctx, tld)
	if err != nil {
		return Verdict{}, err
	}
	if len(servers) == 0 {
		return Verdict{}, fmt.Errorf("no rdap server for tld %s", tld)
	}

	client := s.Client
	if client == nil {
		client = &rdap.Client{}
	}

	var lastErr error
	for _, serverBase := range servers {
		serverURL, err := url.Parse(serverBase)
		if err != nil {
			return Verdict{}, fmt.Errorf("invalid rdap server url: %w", err)
		}
		endpoint := serverURL.Hostname()

		if s.Limiter != nil && endpoint != "" {
			allowed, wait, err := s.Limiter.Allow(ctx, endpoint)
			if err != nil {
				return Verdict{}, err
			}
			if !allowed {
				lastErr = fmt.Errorf("rate limit active for %s, retry in %s", endpoint, wait.Round(time.Second))
				continue
			}
			if err := s.Limiter.Record(ctx, endpoint); err != nil {
				return Verdict{}, err
			}
		}

		req := rdap.NewDomainRequest(domain).WithServer(serverURL)
		if timeout > 0 {
			req.Timeout = timeout
		}
		req = req.WithContext(ctx)

		resp, reqErr := client.Do(req)
		statusCode := responseStatus(resp)

		if reqErr != nil {
			if isNotFound(reqErr) || statusCode == 404 {
				return s.verdict(core.StatusAvailable), nil
			}
			if statusCode == 429 {
				if s.Limiter != nil && endpoint != "" {
					if wait := retryAfter(resp); wait > 0 {
						_ = s.Limiter.Record429(ctx, endpoint, wait)
					}
				}
				lastErr = fmt.Errorf("rdap query for %s returned 429 too many requests", domain)
				continue
			}
			if statusCode >= 500 && statusCode <= 599 {
				lastErr = fmt.Errorf("rdap server error for %s: status %d", domain, statusCode)
				continue
			}
			lastErr = fmt.Errorf("rdap query for %s failed: %w", domain, reqErr)
			continue
		}

		if _, ok := resp.Object.(*rdap.Domain); ok {
			return s.verdict(core.StatusTaken), nil
		}

		lastErr = fmt.Errorf("unexpected response from rdap server %s", endpoint)
	}

	return Verdict{}, lastErr
}

func (s *RDAPService) servers(ctx context.Context, tld string) ([]string, error) {
	overrides := defaultRDAPOverrides
	if s.Overrides != nil {
		overrides = s.Overrides
	}
	if override := overrides[tld]; len(override) > 0 {
		return override, nil
	}

	source := s.Servers
	if source == nil {
		source = defaultRDAPServers
	}
	return source.RDAPServers(ctx, tld)
}

func (s *RDAPService) verdict(status core.Status) Verdict {
	return Verdict{Status: status, Source: rdapSource, CheckedAt: s.now()}
}

func (s *RDAPService) now() time.Time {
	if s != nil && s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

func responseStatus(resp *rdap.Response) int {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0
	}
	return resp.HTTP[0].Response.StatusCode
}

func retryAfter(resp *rdap.Response) time.Duration {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0
	}

	retry := strings.TrimSpace(resp.HTTP[0].Response.Header.Get("Retry-After"))
	if retry == "" {
		return 0
	}
	if seconds, err := time.ParseDuration(retry + "s"); err == nil {
		return seconds
	}
	return 0
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}

	clientErr, ok := err.(*rdap.ClientError)
	if !ok {
		return false
	}

	return clientErr.Type == rdap.ObjectDoesNotExist
}
