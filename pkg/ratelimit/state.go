// Package ratelimit tracks the GitHub API request quota and gates requests.
// It reads the X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset
// response headers. An exhausted quota refuses further requests until the
// reset time; there is no waiting or backoff.
package ratelimit

import (
	"time"
)

// Response headers carrying the quota state.
const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// RemainingThresholdLow marks the quota as running low (logged as a warning).
const RemainingThresholdLow = 3

// RateLimitState represents the last observed quota state.
type RateLimitState struct {
	// Limit is the total number of requests allowed in the window.
	Limit int `json:"limit"`

	// Remaining is the number of requests left in the current window.
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets (from the epoch seconds in X-RateLimit-Reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was last updated from response headers.
	LastUpdate time.Time `json:"last_update"`

	// Known is false until a response carrying quota headers has been seen.
	Known bool `json:"known"`
}

// IsStale returns true if the state data is older than the given duration.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// IsExhausted returns true if no requests are left and the window has not reset yet.
func (s *RateLimitState) IsExhausted() bool {
	return s.Known && s.Remaining <= 0 && s.TimeUntilReset() > 0
}

// IsLow returns true if the remaining quota is below RemainingThresholdLow.
func (s *RateLimitState) IsLow() bool {
	return s.Known && s.Remaining < RemainingThresholdLow
}

// TimeUntilReset returns the duration until the quota resets.
// Returns 0 if the reset time has already passed.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}
