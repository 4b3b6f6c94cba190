package engine

import (
	"math/rand/v2"
	"strings"
	"time"
)

// ErrorCategory identifies the cause class of a failed lookup.
type ErrorCategory string

const (
	CategoryNetwork       ErrorCategory = "network"
	CategoryResolution    ErrorCategory = "resolution"
	CategoryLookupService ErrorCategory = "lookup_service"
	CategoryTimeout       ErrorCategory = "timeout"
	CategoryRateLimit     ErrorCategory = "rate_limit"
	CategoryValidation    ErrorCategory = "validation"
	CategoryServerSide    ErrorCategory = "server_side"
	CategoryUnknown       ErrorCategory = "unknown"
)

// CategorizedError is the classified form of a raw lookup failure. It
// drives retry decisions and supplies the user-facing message attached
// to a failed check result.
type CategorizedError struct {
	Category        ErrorCategory `json:"category"`
	RawMessage      string        `json:"raw_message"`
	UserMessage     string        `json:"user_message"`
	Retryable       bool          `json:"retryable"`
	SuggestedAction string        `json:"suggested_action,omitempty"`
}

func (e *CategorizedError) Error() string {
	if e == nil {
		return ""
	}
	return e.RawMessage
}

type categoryProfile struct {
	baseDelay       time.Duration
	retryable       bool
	userMessage     string
	suggestedAction string
}

var categoryProfiles = map[ErrorCategory]categoryProfile{
	CategoryNetwork: {
		baseDelay:       time.Second,
		retryable:       true,
		userMessage:     "Network error while contacting the lookup service.",
		suggestedAction: "Check your connection and retry.",
	},
	CategoryResolution: {
		baseDelay:       500 * time.Millisecond,
		retryable:       true,
		userMessage:     "DNS lookup failed. This might indicate the domain is available.",
		suggestedAction: "Verify with a registrar before relying on this result.",
	},
	CategoryLookupService: {
		baseDelay:       2 * time.Second,
		retryable:       true,
		userMessage:     "The lookup service returned an unusable response.",
		suggestedAction: "Retry; the registry backend may be briefly degraded.",
	},
	CategoryTimeout: {
		baseDelay:       3 * time.Second,
		retryable:       true,
		userMessage:     "The lookup timed out.",
		suggestedAction: "Retry with a longer timeout.",
	},
	CategoryRateLimit: {
		baseDelay:       10 * time.Second,
		retryable:       true,
		userMessage:     "The lookup service is rate limiting requests.",
		suggestedAction: "Lower concurrency or wait before retrying.",
	},
	CategoryValidation: {
		baseDelay:   0,
		retryable:   false,
		userMessage: "The domain name or TLD is not valid.",
	},
	CategoryServerSide: {
		baseDelay:       5 * time.Second,
		retryable:       true,
		userMessage:     "The lookup service reported a server error.",
		suggestedAction: "Retry later.",
	},
	CategoryUnknown: {
		baseDelay:       2 * time.Second,
		retryable:       true,
		userMessage:     "The check failed for an unrecognized reason.",
		suggestedAction: "Retry; if the failure persists, check the raw error.",
	},
}

// Substring tables are matched in order against the lowercased error
// text; the first hit wins, and anything unmatched is Unknown.
var categoryPatterns = []struct {
	category ErrorCategory
	patterns []string
}{
	{CategoryValidation, []string{"invalid", "malformed", "is required", "must be", "must include", "not a valid"}},
	{CategoryRateLimit, []string{"rate limit", "too many requests", "429", "quota exceeded"}},
	{CategoryTimeout, []string{"timeout", "timed out", "deadline exceeded"}},
	{CategoryResolution, []string{"no such host", "nxdomain", "name resolution", "dns"}},
	{CategoryNetwork, []string{"connection refused", "connection reset", "network is unreachable", "no route to host", "broken pipe", "dial tcp", "eof"}},
	{CategoryServerSide, []string{"server error", "internal error", "status 500", "status 502", "status 503", "bad gateway", "service unavailable"}},
	{CategoryLookupService, []string{"whois", "rdap", "unexpected response", "no lookup server"}},
}

// Classify maps a raw failure onto exactly one category. Classification
// is a pure function of the error text: the same message always yields
// the same CategorizedError.
func Classify(err error) *CategorizedError {
	raw := ""
	if err != nil {
		raw = err.Error()
	}

	category := CategoryUnknown
	lower := strings.ToLower(raw)
	for _, entry := range categoryPatterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(lower, pattern) {
				category = entry.category
				break
			}
		}
		if category != CategoryUnknown {
			break
		}
	}

	profile := categoryProfiles[category]
	return &CategorizedError{
		Category:        category,
		RawMessage:      raw,
		UserMessage:     profile.userMessage,
		Retryable:       profile.retryable,
		SuggestedAction: profile.suggestedAction,
	}
}

// Policy computes retry backoff delays. Jitter is injectable for tests
// and defaults to a uniform 0..1s draw.
type Policy struct {
	Jitter func() time.Duration
}

// BaseDelay returns the fixed per-category delay before backoff scaling.
func BaseDelay(category ErrorCategory) time.Duration {
	return categoryProfiles[category].baseDelay
}

// Delay returns the backoff before retry number attempt (1-based):
// baseDelay * 2^(attempt-1) plus jitter, or 0 for non-retryable errors.
func (p Policy) Delay(categorized *CategorizedError, attempt int) time.Duration {
	if categorized == nil || !categorized.Retryable {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}

	delay := BaseDelay(categorized.Category) << (attempt - 1)

	jitter := p.Jitter
	if jitter == nil {
		jitter = defaultJitter
	}
	return delay + jitter()
}

func defaultJitter() time.Duration {
	return time.Duration(rand.N(int64(time.Second)))
}
