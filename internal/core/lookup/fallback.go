package lookup

import (
	"context"
	"errors"
	"time"

	"github.com/tldsweep/tldsweep/internal/metrics"
)

// Chain tries each backend in order until one produces a verdict.
// Backends are skipped only on error; a verdict, even a dubious one,
// stops the chain.
type Chain struct {
	Services []Service
}

// NewChain builds a Chain, dropping nil entries.
func NewChain(services ...Service) *Chain {
	chain := &Chain{}
	for _, svc := range services {
		if svc != nil {
			chain.Services = append(chain.Services, svc)
		}
	}
	return chain
}

// Lookup implements Service.
func (c *Chain) Lookup(ctx context.Context, name, tld string, timeout time.Duration) (Verdict, error) {
	if c == nil || len(c.Services) == 0 {
		return Verdict{}, errors.New("no lookup server configured")
	}

	var lastErr error
	for _, svc := range c.Services {
		if ctx != nil && ctx.Err() != nil {
			return Verdict{}, ctx.Err()
		}

		verdict, err := svc.Lookup(ctx, name, tld, timeout)
		metrics.RecordLookup(lookupSource(svc, verdict), err == nil)
		if err == nil {
			return verdict, nil
		}
		lastErr = err
	}

	return Verdict{}, lastErr
}

// lookupSource labels a chain entry for metrics, preferring the label
// the backend stamped on its verdict.
func lookupSource(svc Service, verdict Verdict) string {
	if verdict.Source != "" {
		return verdict.Source
	}
	switch svc.(type) {
	case *RDAPService:
		return rdapSource
	case *WhoisService:
		return whoisSource
	case *DNSService:
		return dnsSource
	case *CachedService:
		return "cache"
	default:
		return "unknown"
	}
}
