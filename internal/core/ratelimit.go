package core

import "time"

// RateLimitState is the persisted request-budget window for one lookup
// endpoint.
type RateLimitState struct {
	Endpoint     string     `json:"endpoint"`
	WindowStart  time.Time  `json:"window_start"`
	RequestCount int        `json:"request_count"`
	Last429At    *time.Time `json:"last_429_at,omitempty"`
	BackoffUntil *time.Time `json:"backoff_until,omitempty"`
}
