package lookup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/tldsweep/tldsweep/internal/core"
)

const dnsSource = "dns"

// DNSService infers availability from NS records. It is fast and free
// but non-authoritative: registered domains without nameservers look
// available. Use it last in a fallback chain.
type DNSService struct {
	Resolver *net.Resolver
	Clock    func() time.Time
}

// NewDNSService returns a DNSService backed by the pure-Go resolver.
func NewDNSService() *DNSService {
	return &DNSService{
		Resolver: &net.Resolver{PreferGo: true},
	}
}

// Lookup implements Service.
func (s *DNSService) Lookup(ctx context.Context, name, tld string, timeout time.Duration) (Verdict, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	domain := name + "." + core.NormalizeTLD(tld)

	resolver := s.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	records, err := resolver.LookupNS(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return s.verdict(core.StatusAvailable), nil
		}
		return Verdict{}, fmt.Errorf("dns lookup for %s failed: %w", domain, err)
	}

	if len(records) == 0 {
		return s.verdict(core.StatusAvailable), nil
	}

	return s.verdict(core.StatusTaken), nil
}

func (s *DNSService) verdict(status core.Status) Verdict {
	return Verdict{Status: status, Source: dnsSource, CheckedAt: s.now()}
}

func (s *DNSService) now() time.Time {
	if s != nil && s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}
