package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	rateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "awesome_rate_limit_remaining",
		Help: "Number of API requests remaining in the current rate limit window",
	})

	rateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "awesome_rate_limit_blocks_total",
		Help: "Total number of requests refused because the rate limit was exhausted",
	})
)

// Tracker holds the quota state observed during a run.
type Tracker struct {
	mu     sync.Mutex
	state  RateLimitState
	logger zerolog.Logger
}

// NewTracker creates a new rate limit tracker.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		logger: logger,
	}
}

// GetState returns a copy of the current quota state.
func (t *Tracker) GetState() RateLimitState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// UpdateFromHeaders parses the quota headers of a response.
// Responses without X-RateLimit-Remaining leave the state unchanged.
func (t *Tracker) UpdateFromHeaders(headers http.Header) error {
	remainStr := headers.Get(HeaderRemaining)
	if remainStr == "" {
		return nil
	}

	remain, err := strconv.Atoi(remainStr)
	if err != nil {
		return fmt.Errorf("parse %s header: %w", HeaderRemaining, err)
	}

	resetStr := headers.Get(HeaderReset)
	if resetStr == "" {
		return fmt.Errorf("%s header missing", HeaderReset)
	}
	resetEpoch, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s header: %w", HeaderReset, err)
	}

	limit := 0
	if limitStr := headers.Get(HeaderLimit); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("parse %s header: %w", HeaderLimit, err)
		}
	}

	state := RateLimitState{
		Limit:      limit,
		Remaining:  remain,
		ResetAt:    time.Unix(resetEpoch, 0),
		LastUpdate: time.Now(),
		Known:      true,
	}

	t.mu.Lock()
	t.state = state
	t.mu.Unlock()

	rateLimitRemaining.Set(float64(remain))

	if state.IsLow() {
		t.logger.Warn().
			Int("remaining", remain).
			Int("limit", limit).
			Time("reset_at", state.ResetAt).
			Msg("API rate limit running low")
	} else {
		t.logger.Debug().
			Int("remaining", remain).
			Int("limit", limit).
			Time("reset_at", state.ResetAt).
			Msg("API rate limit state updated")
	}

	return nil
}

// ShouldAllowRequest reports whether a request may be sent now. When the
// quota is exhausted it returns false and the time until the window resets.
func (t *Tracker) ShouldAllowRequest() (bool, time.Duration) {
	state := t.GetState()

	if state.IsExhausted() {
		wait := state.TimeUntilReset()
		t.logger.Error().
			Int("remaining", state.Remaining).
			Dur("reset_in", wait).
			Msg("API rate limit exhausted - refusing request")
		rateLimitBlocksTotal.Inc()
		return false, wait
	}

	return true, 0
}
