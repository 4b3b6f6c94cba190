package engine

import (
	"context"

	"github.com/tldsweep/tldsweep/internal/core"
)

// CheckDomains checks every domain name across every TLD, producing a
// single keyed aggregate with two layers of progress. Domains run
// strictly sequentially; only a domain's own TLD batch is concurrent.
// The overall total is fixed at len(names)*len(tlds) for the whole run,
// and per-domain progress is folded in via an accumulated base offset
// from all previously finished domains.
func (b *BatchChecker) CheckDomains(ctx context.Context, names, tlds []string, cfg Config) *core.UnifiedBatchResult {
	cfg = cfg.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}

	normalized := make([]string, len(tlds))
	for i, tld := range tlds {
		normalized[i] = core.NormalizeTLD(tld)
	}

	startedAt := b.now()
	total := len(names) * len(normalized)
	unified := &core.UnifiedBatchResult{
		Names:           append([]string(nil), names...),
		TLDs:            normalized,
		ResultsByDomain: make(map[string]*core.DomainBatchResult, len(names)),
		OverallProgress: core.OverallProgress{
			Progress:     core.NewProgress(total),
			TotalDomains: len(names),
		},
		StartedAt: startedAt,
	}

	if total == 0 {
		unified.CompletedAt = b.now()
		unified.DurationMS = unified.CompletedAt.Sub(startedAt).Milliseconds()
		return unified
	}

	baseCompleted := 0
	baseFailed := 0

	for i, name := range names {
		if cfg.Token.Cancelled() {
			unified.Cancelled = true
			break
		}

		domainCfg := cfg
		domainCfg.OnProgress = func(local core.Progress) {
			if cfg.OnProgress != nil {
				cfg.OnProgress(local)
			}
			b.emitOverall(cfg, unified, overallSnapshot(total, baseCompleted, baseFailed, local, name, i, len(names)))
		}

		domainResult := b.CheckDomain(ctx, name, normalized, domainCfg)
		unified.ResultsByDomain[name] = domainResult

		baseCompleted += domainResult.Progress.Completed
		baseFailed += domainResult.Progress.Failed

		b.emitOverall(cfg, unified, overallSnapshot(total, baseCompleted, baseFailed, core.Progress{}, name, i+1, len(names)))
	}

	if cfg.Token.Cancelled() {
		unified.Cancelled = true
	}

	unified.CompletedAt = b.now()
	unified.DurationMS = unified.CompletedAt.Sub(startedAt).Milliseconds()
	return unified
}

func (b *BatchChecker) emitOverall(cfg Config, unified *core.UnifiedBatchResult, snapshot core.OverallProgress) {
	unified.OverallProgress = snapshot
	if cfg.OnOverallProgress != nil {
		cfg.OnOverallProgress(snapshot)
	}
}

func overallSnapshot(total, baseCompleted, baseFailed int, local core.Progress, current string, domainsCompleted, totalDomains int) core.OverallProgress {
	completed := baseCompleted + local.Completed
	return core.OverallProgress{
		Progress: core.Progress{
			Total:      total,
			Completed:  completed,
			Failed:     baseFailed + local.Failed,
			Remaining:  total - completed,
			Percentage: core.Percent(completed, total),
		},
		CurrentDomain:     current,
		DomainsCompleted:  domainsCompleted,
		TotalDomains:      totalDomains,
		OverallPercentage: core.Percent(domainsCompleted, totalDomains),
	}
}
