package core

import "time"

// DomainBatchResult aggregates one domain name's checks across all
// requested TLDs. Results preserves input TLD order; Successful and
// Failed partition it. All three cover every requested TLD unless the
// run was cancelled mid-batch.
type DomainBatchResult struct {
	Name        string         `json:"name"`
	Results     []*CheckResult `json:"results"`
	Successful  []*CheckResult `json:"successful"`
	Failed      []*CheckResult `json:"failed"`
	Progress    Progress       `json:"progress"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	DurationMS  int64          `json:"duration_ms"`
}

// UnifiedBatchResult is the full-run aggregate across all domain names.
// ResultsByDomain is keyed by name; Names preserves input order. The
// structure is owned by the caller once returned and never mutated by
// the engine afterwards.
type UnifiedBatchResult struct {
	Names           []string                      `json:"names"`
	TLDs            []string                      `json:"tlds"`
	ResultsByDomain map[string]*DomainBatchResult `json:"results_by_domain"`
	OverallProgress OverallProgress               `json:"overall_progress"`
	StartedAt       time.Time                     `json:"started_at"`
	CompletedAt     time.Time                     `json:"completed_at"`
	DurationMS      int64                         `json:"duration_ms"`
	Cancelled       bool                          `json:"cancelled"`
}

// Domains returns the per-domain results in input order.
func (u *UnifiedBatchResult) Domains() []*DomainBatchResult {
	if u == nil {
		return nil
	}
	out := make([]*DomainBatchResult, 0, len(u.Names))
	for _, name := range u.Names {
		if result, ok := u.ResultsByDomain[name]; ok {
			out = append(out, result)
		}
	}
	return out
}

// TotalChecks counts every completed check in the aggregate.
func (u *UnifiedBatchResult) TotalChecks() int {
	if u == nil {
		return 0
	}
	total := 0
	for _, result := range u.ResultsByDomain {
		total += len(result.Results)
	}
	return total
}
