// Package client provides the search API HTTP client with a required
// User-Agent, quota tracking, optional response caching, and error
// classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/awesome-lists/pkg/cache"
	"github.com/Sternrassler/awesome-lists/pkg/logging"
	"github.com/Sternrassler/awesome-lists/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for search API requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "awesome_requests_total",
		Help: "Total search API requests by status",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "awesome_request_duration_seconds",
		Help:    "Search API request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	requestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "awesome_request_errors_total",
		Help: "Total search API errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the GitHub repository search endpoint.
const DefaultBaseURL = "https://api.github.com/search/repositories"

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 403/429 responses with an exhausted quota.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Client issues search requests against the search API.
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	rateLimiter *ratelimit.Tracker
	cache       *cache.Manager
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the search endpoint; query and page are appended as parameters
	BaseURL string

	// User-Agent header (REQUIRED by the GitHub API)
	UserAgent string

	// Timeout per request; zero leaves the transport default (no timeout)
	Timeout time.Duration

	// Cache enables conditional revalidation of pages (optional)
	Cache *cache.Manager
}

// DefaultConfig returns the default configuration for the given User-Agent.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
	}
}

// New creates a new search client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	logger := logging.NewLogger("search-client")

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     base,
		rateLimiter: ratelimit.NewTracker(logger),
		cache:       cfg.Cache,
		config:      cfg,
		logger:      logger,
	}, nil
}

// PageURL returns the request URL for one page of query results.
func (c *Client) PageURL(query string, page int) string {
	u := *c.baseURL
	params := u.Query()
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	u.RawQuery = params.Encode()
	return u.String()
}

// SearchPage fetches one page of search results and returns the raw body.
func (c *Client) SearchPage(ctx context.Context, query string, page int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(query, page), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// Do performs a request with quota gating, optional cache revalidation, and
// error classification, and returns the response body of a successful call.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check quota
	if allowed, wait := c.rateLimiter.ShouldAllowRequest(); !allowed {
		requestsTotal.WithLabelValues("rate_limited").Inc()
		requestErrorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
		return nil, fmt.Errorf("%w: resets in %s", ErrRateLimited, wait.Round(time.Second))
	}

	// Step 2: Look up cached page
	var cacheKey cache.CacheKey
	var cachedEntry *cache.CacheEntry
	if c.cache != nil {
		cacheKey = cache.KeyFromURL(req.URL)
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("key", cacheKey.String()).Msg("Cache get error")
		}
		cachedEntry = entry
	}

	// Step 3: Make conditional request on cache hit
	if cache.ShouldMakeConditionalRequest(cachedEntry) {
		cache.AddConditionalHeaders(req, cachedEntry)
		cache.ConditionalRequestsSent.Inc()
		c.logger.Debug().
			Str("url", req.URL.String()).
			Str("etag", cachedEntry.ETag).
			Msg("Making conditional request")
	}

	// Step 4: Identify the client
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	c.logger.Debug().
		Str("url", req.URL.String()).
		Str("method", req.Method).
		Msg("Executing search request")

	// Step 5: Execute
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		requestErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues("network_error").Inc()
		return nil, &APIError{
			ErrorClass: ErrorClassNetwork,
			Message:    "send request",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	// Step 6: Track quota
	if err := c.rateLimiter.UpdateFromHeaders(resp.Header); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
	}

	requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	// Step 7: Serve 304 from cache
	if resp.StatusCode == http.StatusNotModified {
		if cachedEntry == nil {
			requestErrorsTotal.WithLabelValues(string(ErrorClassClient)).Inc()
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassClient,
				Message:    resp.Status,
				Err:        ErrUnexpectedNotModified,
			}
		}

		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using cache")
		cache.NotModifiedResponses.Inc()

		refreshed, err := cache.ResponseToEntry(resp)
		if err == nil {
			if err := c.cache.UpdateTTL(ctx, cacheKey, refreshed.Expires); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
			}
		}

		return cachedEntry.Data, nil
	}

	// Step 8: Classify failures
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errClass := c.classifyError(resp)
		requestErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Search request error")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    responseMessage(resp),
		}
	}

	// Step 9: Read body, caching it when possible
	if c.cache != nil && resp.StatusCode == http.StatusOK {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			requestErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassNetwork,
				Message:    "read response body",
				Err:        err,
			}
		}
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("key", cacheKey.String()).
				Dur("ttl", entry.TTL()).
				Msg("Cached response")
		}
		return entry.Data, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		requestErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	return body, nil
}

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// responseMessage returns the "message" field of a GitHub error body, or the
// status line when the body carries none.
func responseMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return resp.Status
	}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) != nil || payload.Message == "" {
		return resp.Status
	}
	return payload.Message
}

// classifyError categorizes a failed response for observability.
func (c *Client) classifyError(resp *http.Response) ErrorClass {
	var class ErrorClass
	switch {
	case (resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests) &&
		resp.Header.Get(ratelimit.HeaderRemaining) == "0":
		class = ErrorClassRateLimit
	case resp.StatusCode == http.StatusTooManyRequests:
		class = ErrorClassRateLimit
	case resp.StatusCode >= 500:
		class = ErrorClassServer
	default:
		class = ErrorClassClient
	}

	c.logger.Debug().Str("class", string(class)).Msg("Error classified")
	return class
}

// RateLimitState returns the last observed API quota.
func (c *Client) RateLimitState() ratelimit.RateLimitState {
	return c.rateLimiter.GetState()
}

// Close releases resources. The HTTP client needs no cleanup; the cache's
// Redis client is owned by the caller.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
