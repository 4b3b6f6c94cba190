package core

import "math"

// Progress is a point-in-time snapshot of one domain's TLD batch.
// Completed counts every finished check, successful or failed;
// Completed + Remaining == Total at every emission.
type Progress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Remaining  int `json:"remaining"`
	Percentage int `json:"percentage"`
}

// NewProgress returns an empty snapshot for the given total.
func NewProgress(total int) Progress {
	return Progress{Total: total, Remaining: total}
}

// Advance returns a snapshot with one more completed check recorded.
func (p Progress) Advance(failed bool) Progress {
	p.Completed++
	if failed {
		p.Failed++
	}
	p.Remaining = p.Total - p.Completed
	p.Percentage = Percent(p.Completed, p.Total)
	return p
}

// OverallProgress aggregates per-domain progress across a whole run.
// Total never changes mid-run: it is len(names) * len(tlds).
type OverallProgress struct {
	Progress
	CurrentDomain     string `json:"current_domain,omitempty"`
	DomainsCompleted  int    `json:"domains_completed"`
	TotalDomains      int    `json:"total_domains"`
	OverallPercentage int    `json:"overall_percentage"`
}

// Percent computes a rounded completion percentage, 0 when total is 0.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
