package lookup

import (
	"context"
	"time"

	"github.com/tldsweep/tldsweep/internal/core"
)

// VerdictCache persists verdicts between runs.
type VerdictCache interface {
	GetVerdict(ctx context.Context, name, tld string) (*Verdict, error)
	SetVerdict(ctx context.Context, name, tld string, verdict Verdict, ttl time.Duration) error
}

// CachePolicy sets how long each verdict kind stays fresh. Taken
// domains change hands rarely; available ones can vanish within hours.
type CachePolicy struct {
	AvailableTTL time.Duration
	TakenTTL     time.Duration
}

// DefaultCachePolicy mirrors the CLI defaults.
func DefaultCachePolicy() CachePolicy {
	return CachePolicy{
		AvailableTTL: time.Hour,
		TakenTTL:     24 * time.Hour,
	}
}

func (p CachePolicy) ttl(verdict Verdict) time.Duration {
	switch verdict.Status {
	case core.StatusAvailable:
		return p.AvailableTTL
	default:
		return p.TakenTTL
	}
}

// CachedService wraps a backend with read-through verdict caching.
// Cache failures are swallowed; a cold or broken cache only costs a
// network query.
type CachedService struct {
	Next   Service
	Cache  VerdictCache
	Policy CachePolicy
}

// NewCachedService wraps next with cache under the default policy.
func NewCachedService(next Service, cache VerdictCache) *CachedService {
	return &CachedService{Next: next, Cache: cache, Policy: DefaultCachePolicy()}
}

// Lookup implements Service.
func (s *CachedService) Lookup(ctx context.Context, name, tld string, timeout time.Duration) (Verdict, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.GetVerdict(ctx, name, tld); err == nil && cached != nil {
			return *cached, nil
		}
	}

	verdict, err := s.Next.Lookup(ctx, name, tld, timeout)
	if err != nil {
		return Verdict{}, err
	}

	if s.Cache != nil {
		if ttl := s.Policy.ttl(verdict); ttl > 0 {
			_ = s.Cache.SetVerdict(ctx, name, tld, verdict, ttl)
		}
	}

	return verdict, nil
}
