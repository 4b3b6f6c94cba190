// Package lookup provides the availability lookup backends consumed by
// the checking engine: RDAP with optional WHOIS and DNS fallbacks.
package lookup

import (
	"context"
	"time"

	"github.com/tldsweep/tldsweep/internal/core"
)

// Verdict is a definitive availability answer for one (name, tld).
type Verdict struct {
	Status    core.Status `json:"status"`
	Source    string      `json:"source,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// Service resolves availability for a single (name, tld) pair. An error
// return means no verdict could be determined; the error text is what
// the engine's classifier matches against.
type Service interface {
	Lookup(ctx context.Context, name, tld string, timeout time.Duration) (Verdict, error)
}

// Func adapts a plain function to the Service interface.
type Func func(ctx context.Context, name, tld string, timeout time.Duration) (Verdict, error)

// Lookup implements Service.
func (f Func) Lookup(ctx context.Context, name, tld string, timeout time.Duration) (Verdict, error) {
	return f(ctx, name, tld, timeout)
}
