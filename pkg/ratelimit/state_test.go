package ratelimit

import (
	"testing"
	"time"
)

func TestRateLimitState_IsStale(t *testing.T) {
	tests := []struct {
		name     string
		state    *RateLimitState
		maxAge   time.Duration
		expected bool
	}{
		{
			name: "fresh state",
			state: &RateLimitState{
				LastUpdate: time.Now(),
			},
			maxAge:   5 * time.Minute,
			expected: false,
		},
		{
			name: "stale state",
			state: &RateLimitState{
				LastUpdate: time.Now().Add(-10 * time.Minute),
			},
			maxAge:   5 * time.Minute,
			expected: true,
		},
		{
			name: "just under max age",
			state: &RateLimitState{
				LastUpdate: time.Now().Add(-4 * time.Minute),
			},
			maxAge:   5 * time.Minute,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.state.IsStale(tt.maxAge)
			if result != tt.expected {
				t.Errorf("IsStale() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestRateLimitState_IsExhausted(t *testing.T) {
	tests := []struct {
		name     string
		state    RateLimitState
		expected bool
	}{
		{
			name:     "unknown state",
			state:    RateLimitState{},
			expected: false,
		},
		{
			name: "quota left",
			state: RateLimitState{
				Remaining: 7,
				ResetAt:   time.Now().Add(time.Minute),
				Known:     true,
			},
			expected: false,
		},
		{
			name: "exhausted before reset",
			state: RateLimitState{
				Remaining: 0,
				ResetAt:   time.Now().Add(time.Minute),
				Known:     true,
			},
			expected: true,
		},
		{
			name: "exhausted after reset",
			state: RateLimitState{
				Remaining: 0,
				ResetAt:   time.Now().Add(-time.Minute),
				Known:     true,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsExhausted(); got != tt.expected {
				t.Errorf("IsExhausted() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRateLimitState_IsLow(t *testing.T) {
	tests := []struct {
		remaining int
		known     bool
		expected  bool
	}{
		{remaining: 10, known: true, expected: false},
		{remaining: RemainingThresholdLow, known: true, expected: false},
		{remaining: RemainingThresholdLow - 1, known: true, expected: true},
		{remaining: 0, known: false, expected: false},
	}

	for _, tt := range tests {
		state := RateLimitState{Remaining: tt.remaining, Known: tt.known}
		if got := state.IsLow(); got != tt.expected {
			t.Errorf("IsLow() with remaining=%d known=%v = %v, want %v", tt.remaining, tt.known, got, tt.expected)
		}
	}
}

func TestRateLimitState_TimeUntilReset(t *testing.T) {
	past := RateLimitState{ResetAt: time.Now().Add(-time.Hour)}
	if got := past.TimeUntilReset(); got != 0 {
		t.Errorf("TimeUntilReset() for past reset = %v, want 0", got)
	}

	future := RateLimitState{ResetAt: time.Now().Add(time.Minute)}
	got := future.TimeUntilReset()
	if got <= 50*time.Second || got > time.Minute {
		t.Errorf("TimeUntilReset() = %v, want about 1m", got)
	}
}
