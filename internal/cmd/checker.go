package cmd

import (
	"golang.org/x/time/rate"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core/engine"
	"github.com/tldsweep/tldsweep/internal/core/lookup"
	"github.com/tldsweep/tldsweep/internal/core/store"
)

// buildChecker assembles the lookup chain (RDAP, WHOIS, DNS in order)
// under the configured rate limits and wraps it with the verdict cache
// when enabled.
func buildChecker(cfg *config.Config, st *store.Store, useCache bool) *engine.BatchChecker {
	limiter := &lookup.RateLimiter{Store: st}
	limiter.ApplyOverrides(cfg.RateLimits)
	limiter.ApplySafetyMargin(cfg.RateLimitMargin)

	services := make([]lookup.Service, 0, 3)

	if cfg.Lookup.RDAP.Enabled {
		services = append(services, &lookup.RDAPService{
			Servers:   lookup.StoreServers{Store: st},
			Limiter:   limiter,
			Overrides: rdapOverrides(cfg.Lookup.RDAP.Overrides),
		})
	}

	if cfg.Lookup.Whois.Enabled {
		whoisSvc := lookup.NewWhoisService()
		if cfg.Lookup.Whois.QueriesPerSecond > 0 {
			burst := cfg.Lookup.Whois.Burst
			if burst < 1 {
				burst = 1
			}
			whoisSvc.Pacer = rate.NewLimiter(rate.Limit(cfg.Lookup.Whois.QueriesPerSecond), burst)
		}
		whoisSvc.Servers = cfg.Lookup.Whois.Servers
		whoisSvc.AvailablePatterns = cfg.Lookup.Whois.AvailablePatterns
		whoisSvc.TakenPatterns = cfg.Lookup.Whois.TakenPatterns
		services = append(services, whoisSvc)
	}

	if cfg.Lookup.DNS.Enabled {
		services = append(services, lookup.NewDNSService())
	}

	var service lookup.Service = lookup.NewChain(services...)

	if useCache && cfg.Cache.Enabled && st != nil {
		service = &lookup.CachedService{
			Next:  service,
			Cache: st,
			Policy: lookup.CachePolicy{
				AvailableTTL: cfg.Cache.AvailableTTL,
				TakenTTL:     cfg.Cache.TakenTTL,
			},
		}
	}

	return &engine.BatchChecker{Lookup: service}
}

// rdapOverrides returns nil when no user overrides are configured so
// the service keeps its built-in routing.
func rdapOverrides(overrides map[string][]string) map[string][]string {
	if len(overrides) == 0 {
		return nil
	}
	return overrides
}

func checkConfigFromApp(cfg *config.Config) engine.Config {
	engineCfg := engine.DefaultConfig()
	if cfg == nil {
		return engineCfg
	}
	if cfg.Check.Timeout > 0 {
		engineCfg.Timeout = cfg.Check.Timeout
	}
	if cfg.Check.Retries >= 0 {
		engineCfg.Retries = cfg.Check.Retries
	}
	if cfg.Check.MaxConcurrency > 0 {
		engineCfg.MaxConcurrency = cfg.Check.MaxConcurrency
	}
	return engineCfg
}
