package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestTracker() *Tracker {
	return NewTracker(zerolog.New(os.Stderr).Level(zerolog.Disabled))
}

func TestUpdateFromHeaders_ValidHeaders(t *testing.T) {
	reset := time.Now().Add(30 * time.Minute).Unix()

	tests := []struct {
		name            string
		remainHeader    string
		limitHeader     string
		expectedRemain  int
		expectedLimit   int
		expectExhausted bool
	}{
		{
			name:           "plenty left",
			remainHeader:   "9",
			limitHeader:    "10",
			expectedRemain: 9,
			expectedLimit:  10,
		},
		{
			name:           "running low",
			remainHeader:   "1",
			limitHeader:    "10",
			expectedRemain: 1,
			expectedLimit:  10,
		},
		{
			name:            "exhausted",
			remainHeader:    "0",
			limitHeader:     "10",
			expectedRemain:  0,
			expectedLimit:   10,
			expectExhausted: true,
		},
		{
			name:           "no limit header",
			remainHeader:   "5",
			expectedRemain: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			headers.Set(HeaderRemaining, tt.remainHeader)
			headers.Set(HeaderReset, strconv.FormatInt(reset, 10))
			if tt.limitHeader != "" {
				headers.Set(HeaderLimit, tt.limitHeader)
			}

			tracker := newTestTracker()
			if err := tracker.UpdateFromHeaders(headers); err != nil {
				t.Fatalf("UpdateFromHeaders() error = %v", err)
			}

			state := tracker.GetState()
			if !state.Known {
				t.Error("state should be known after update")
			}
			if state.Remaining != tt.expectedRemain {
				t.Errorf("Remaining = %d, want %d", state.Remaining, tt.expectedRemain)
			}
			if state.Limit != tt.expectedLimit {
				t.Errorf("Limit = %d, want %d", state.Limit, tt.expectedLimit)
			}
			if state.ResetAt.Unix() != reset {
				t.Errorf("ResetAt = %d, want %d", state.ResetAt.Unix(), reset)
			}
			if state.IsExhausted() != tt.expectExhausted {
				t.Errorf("IsExhausted() = %v, want %v", state.IsExhausted(), tt.expectExhausted)
			}
		})
	}
}

func TestUpdateFromHeaders_InvalidHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{
			name:    "non-numeric remaining",
			headers: map[string]string{HeaderRemaining: "many", HeaderReset: "1700000000"},
		},
		{
			name:    "missing reset",
			headers: map[string]string{HeaderRemaining: "5"},
		},
		{
			name:    "non-numeric reset",
			headers: map[string]string{HeaderRemaining: "5", HeaderReset: "soon"},
		},
		{
			name:    "non-numeric limit",
			headers: map[string]string{HeaderRemaining: "5", HeaderReset: "1700000000", HeaderLimit: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			for k, v := range tt.headers {
				headers.Set(k, v)
			}

			tracker := newTestTracker()
			if err := tracker.UpdateFromHeaders(headers); err == nil {
				t.Error("expected error for invalid headers")
			}
			if tracker.GetState().Known {
				t.Error("state should stay unknown after a failed update")
			}
		})
	}
}

func TestUpdateFromHeaders_NoHeaders(t *testing.T) {
	tracker := newTestTracker()
	if err := tracker.UpdateFromHeaders(http.Header{}); err != nil {
		t.Errorf("UpdateFromHeaders() with no headers error = %v", err)
	}
	if tracker.GetState().Known {
		t.Error("state should stay unknown without headers")
	}
}

func TestShouldAllowRequest(t *testing.T) {
	tests := []struct {
		name      string
		remaining string
		reset     time.Time
		allowed   bool
	}{
		{
			name:      "quota left",
			remaining: "4",
			reset:     time.Now().Add(time.Minute),
			allowed:   true,
		},
		{
			name:      "exhausted",
			remaining: "0",
			reset:     time.Now().Add(time.Minute),
			allowed:   false,
		},
		{
			name:      "exhausted but window reset",
			remaining: "0",
			reset:     time.Now().Add(-time.Minute),
			allowed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newTestTracker()
			headers := http.Header{}
			headers.Set(HeaderRemaining, tt.remaining)
			headers.Set(HeaderReset, strconv.FormatInt(tt.reset.Unix(), 10))
			if err := tracker.UpdateFromHeaders(headers); err != nil {
				t.Fatalf("UpdateFromHeaders() error = %v", err)
			}

			allowed, wait := tracker.ShouldAllowRequest()
			if allowed != tt.allowed {
				t.Errorf("ShouldAllowRequest() = %v, want %v", allowed, tt.allowed)
			}
			if !allowed && wait <= 0 {
				t.Errorf("expected positive wait when refused, got %v", wait)
			}
		})
	}
}

func TestShouldAllowRequest_UnknownState(t *testing.T) {
	allowed, wait := newTestTracker().ShouldAllowRequest()
	if !allowed || wait != 0 {
		t.Errorf("ShouldAllowRequest() = (%v, %v), want (true, 0)", allowed, wait)
	}
}
