package core

import (
	"strings"
	"time"
)

// Status represents the outcome of a single (name, tld) check.
type Status string

const (
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
	StatusFailed    Status = "failed"
)

// CheckRequest identifies one (name, tld) combination to check.
type CheckRequest struct {
	Name string `json:"name"`
	TLD  string `json:"tld"`
}

// Domain returns the fully qualified domain for the request.
func (r CheckRequest) Domain() string {
	return r.Name + "." + strings.TrimPrefix(r.TLD, ".")
}

// CheckResult reports the terminal outcome of one (name, tld) check.
// ErrorMessage is set exactly when Status is StatusFailed. On a
// classified failure ErrorCategory names the failure class; the HTTP
// layer fills ErrorCode with the matching API error code.
type CheckResult struct {
	Name          string    `json:"name"`
	TLD           string    `json:"tld"`
	Status        Status    `json:"status"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	ErrorCategory string    `json:"error_category,omitempty"`
	ErrorCode     string    `json:"error_code,omitempty"`
	Attempts      int       `json:"attempts,omitempty"`
	CheckedAt     time.Time `json:"checked_at"`
}

// Failed reports whether the check ended without a verdict.
func (r *CheckResult) Failed() bool {
	return r != nil && r.Status == StatusFailed
}

// NormalizeTLD lowercases a TLD and strips any leading dot.
func NormalizeTLD(tld string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tld)), ".")
}
