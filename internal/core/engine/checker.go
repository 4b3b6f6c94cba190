// Package engine implements the tldsweep checking engine: a windowed
// concurrency controller, the retry/backoff policy, cooperative
// cancellation, and the per-domain and unified batch checkers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/lookup"
)

const (
	DefaultTimeout        = 5 * time.Second
	DefaultRetries        = 2
	DefaultMaxConcurrency = 10
)

// Config controls a single checking run.
type Config struct {
	// Timeout caps each individual lookup call.
	Timeout time.Duration

	// Retries is the maximum number of retry attempts per call after
	// the initial one.
	Retries int

	// MaxConcurrency caps simultaneous in-flight lookups within one
	// domain's TLD batch.
	MaxConcurrency int

	// OnProgress receives every per-domain progress change.
	OnProgress func(core.Progress)

	// OnOverallProgress receives every cross-domain progress change
	// during a unified run.
	OnOverallProgress func(core.OverallProgress)

	// Token, when set, allows callers to cancel the run cooperatively.
	Token *CancelToken
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        DefaultTimeout,
		Retries:        DefaultRetries,
		MaxConcurrency: DefaultMaxConcurrency,
	}
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retries < 0 {
		c.Retries = DefaultRetries
	}
	if c.MaxConcurrency < 1 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	return c
}

// BatchChecker runs availability checks against a lookup service.
type BatchChecker struct {
	Lookup lookup.Service
	Policy Policy
	Clock  func() time.Time

	// After is time.After unless overridden; tests inject it to skip
	// real backoff sleeps.
	After func(time.Duration) <-chan time.Time
}

var namePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidateName reports whether a bare domain name (no TLD) is checkable.
func ValidateName(name string) error {
	if len(name) < 1 || len(name) > 63 {
		return errors.New("name must be 1-63 characters")
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%q is not a valid domain name", name)
	}
	return nil
}

func validateRequest(req core.CheckRequest) error {
	if err := ValidateName(req.Name); err != nil {
		return err
	}
	if req.TLD == "" {
		return errors.New("tld is required")
	}
	return nil
}

// CheckDomain checks one domain name across all requested TLDs under
// the window controller, reporting progress on each completion. The
// returned batch covers every TLD in input order unless the run was
// cancelled mid-batch.
func (b *BatchChecker) CheckDomain(ctx context.Context, name string, tlds []string, cfg Config) *core.DomainBatchResult {
	cfg = cfg.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}

	startedAt := b.now()
	batch := &core.DomainBatchResult{
		Name:       name,
		Results:    []*core.CheckResult{},
		Successful: []*core.CheckResult{},
		Failed:     []*core.CheckResult{},
		Progress:   core.NewProgress(len(tlds)),
		StartedAt:  startedAt,
	}

	if len(tlds) == 0 {
		batch.CompletedAt = b.now()
		batch.DurationMS = batch.CompletedAt.Sub(startedAt).Milliseconds()
		return batch
	}

	tracker := &progressTracker{progress: core.NewProgress(len(tlds)), onChange: cfg.OnProgress}

	tasks := make([]Task, len(tlds))
	for i, tld := range tlds {
		req := core.CheckRequest{Name: name, TLD: core.NormalizeTLD(tld)}
		tasks[i] = func() *core.CheckResult {
			result := b.checkOne(ctx, req, cfg)
			tracker.record(result.Failed())
			return result
		}
	}

	batch.Results = RunWindows(cfg.Token, tasks, cfg.MaxConcurrency)
	for _, result := range batch.Results {
		if result.Failed() {
			batch.Failed = append(batch.Failed, result)
		} else {
			batch.Successful = append(batch.Successful, result)
		}
	}

	batch.Progress = tracker.snapshot()
	batch.CompletedAt = b.now()
	batch.DurationMS = batch.CompletedAt.Sub(startedAt).Milliseconds()
	return batch
}

// checkOne drives the single-request state machine: validate, attempt,
// classify, back off, retry or settle. It never returns an error; every
// failure path resolves to a failed result.
func (b *BatchChecker) checkOne(ctx context.Context, req core.CheckRequest, cfg Config) *core.CheckResult {
	if err := validateRequest(req); err != nil {
		return b.failedResult(req, Classify(err), 0)
	}

	for attempt := 1; ; attempt++ {
		if cfg.Token.Cancelled() {
			return b.cancelledResult(req, attempt-1)
		}

		verdict, err := b.Lookup.Lookup(ctx, req.Name, req.TLD, cfg.Timeout)
		if err == nil {
			checkedAt := verdict.CheckedAt
			if checkedAt.IsZero() {
				checkedAt = b.now()
			}
			return &core.CheckResult{
				Name:      req.Name,
				TLD:       req.TLD,
				Status:    verdict.Status,
				Attempts:  attempt,
				CheckedAt: checkedAt,
			}
		}

		categorized := Classify(err)
		if !categorized.Retryable || attempt > cfg.Retries {
			return b.failedResult(req, categorized, attempt)
		}

		if !b.waitRetry(ctx, cfg.Token, b.Policy.Delay(categorized, attempt)) {
			return b.cancelledResult(req, attempt)
		}
	}
}

// waitRetry sleeps the backoff delay, returning false if cancellation
// fired before it elapsed.
func (b *BatchChecker) waitRetry(ctx context.Context, token *CancelToken, delay time.Duration) bool {
	if delay <= 0 {
		return !token.Cancelled() && ctx.Err() == nil
	}

	after := b.After
	if after == nil {
		after = time.After
	}

	select {
	case <-after(delay):
		return !token.Cancelled() && ctx.Err() == nil
	case <-token.Done():
		return false
	case <-ctx.Done():
		return false
	}
}

func (b *BatchChecker) failedResult(req core.CheckRequest, categorized *CategorizedError, attempts int) *core.CheckResult {
	return &core.CheckResult{
		Name:          req.Name,
		TLD:           req.TLD,
		Status:        core.StatusFailed,
		ErrorMessage:  categorized.UserMessage,
		ErrorCategory: string(categorized.Category),
		Attempts:      attempts,
		CheckedAt:     b.now(),
	}
}

func (b *BatchChecker) cancelledResult(req core.CheckRequest, attempts int) *core.CheckResult {
	return &core.CheckResult{
		Name:         req.Name,
		TLD:          req.TLD,
		Status:       core.StatusFailed,
		ErrorMessage: "check cancelled before completion",
		Attempts:     attempts,
		CheckedAt:    b.now(),
	}
}

func (b *BatchChecker) now() time.Time {
	if b != nil && b.Clock != nil {
		return b.Clock()
	}
	return time.Now().UTC()
}

// progressTracker is the only state mutated concurrently during a
// domain batch: window operations complete out of order, so updates and
// emissions are serialized under one mutex to keep snapshots monotonic.
type progressTracker struct {
	mu       sync.Mutex
	progress core.Progress
	onChange func(core.Progress)
}

func (t *progressTracker) record(failed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.progress = t.progress.Advance(failed)
	if t.onChange != nil {
		t.onChange(t.progress)
	}
}

func (t *progressTracker) snapshot() core.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}
