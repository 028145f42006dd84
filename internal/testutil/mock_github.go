// Package testutil provides testing utilities for the awesome-lists harvester.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// SearchPath is the path the mock serves repository search on.
const SearchPath = "/search/repositories"

// MockResponse defines the behavior for one mocked page response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockGitHub is a configurable mock of the repository search endpoint.
// Handlers are registered per page number.
type MockGitHub struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[int]http.HandlerFunc

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
	Queries           []string
	Pages             []int
}

// NewMockGitHub creates a new mock search server.
func NewMockGitHub() *MockGitHub {
	mock := &MockGitHub{
		handlers: make(map[int]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != SearchPath {
			http.NotFound(w, r)
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			http.Error(w, `{"message": "invalid page"}`, http.StatusUnprocessableEntity)
			return
		}

		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.Queries = append(mock.Queries, r.URL.Query().Get("q"))
		mock.Pages = append(mock.Pages, page)
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		handler, exists := mock.handlers[page]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the search endpoint URL of the mock server.
func (m *MockGitHub) URL() string {
	return m.server.URL + SearchPath
}

// Close shuts down the mock server.
func (m *MockGitHub) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockGitHub) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
	m.Queries = nil
	m.Pages = nil
}

// SetPageHandler sets a custom handler for a page number.
func (m *MockGitHub) SetPageHandler(page int, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[page] = handler
}

// SetPageResponse configures a simple response for a page number.
func (m *MockGitHub) SetPageResponse(page int, resp MockResponse) {
	m.SetPageHandler(page, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetPageItems configures a 200 response whose items array is itemsJSON.
func (m *MockGitHub) SetPageItems(page int, itemsJSON string) {
	m.SetPageResponse(page, NewItemsResponse(itemsJSON))
}

// SetPageConnectionDrop makes a page close the connection without answering.
func (m *MockGitHub) SetPageConnectionDrop(page int) {
	m.SetPageHandler(page, func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			panic("testutil: response writer does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			panic(fmt.Sprintf("testutil: hijack: %v", err))
		}
		conn.Close()
	})
}

// GetRequestCount returns the number of search requests received.
func (m *MockGitHub) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockGitHub) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// RequestedPages returns the page numbers requested, in arrival order.
func (m *MockGitHub) RequestedPages() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.Pages...)
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockGitHub) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// defaultHandler answers with an empty result page.
func (m *MockGitHub) defaultHandler(w http.ResponseWriter, r *http.Request) {
	setRateLimitHeaders(w.Header(), 9)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"total_count": 0, "incomplete_results": false, "items": []}`))
}

func setRateLimitHeaders(h http.Header, remaining int) {
	h.Set("X-RateLimit-Limit", "10")
	h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
}

func rateLimitHeaders(remaining int) map[string]string {
	h := http.Header{}
	setRateLimitHeaders(h, remaining)
	return map[string]string{
		"X-RateLimit-Limit":     h.Get("X-RateLimit-Limit"),
		"X-RateLimit-Remaining": h.Get("X-RateLimit-Remaining"),
		"X-RateLimit-Reset":     h.Get("X-RateLimit-Reset"),
	}
}

// NewItemsResponse creates a 200 OK search response around an items array.
func NewItemsResponse(itemsJSON string) MockResponse {
	headers := rateLimitHeaders(9)
	headers["Content-Type"] = "application/json; charset=utf-8"
	headers["Cache-Control"] = "private, max-age=60, s-maxage=60"
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf(`{"total_count": 1000, "incomplete_results": false, "items": %s}`, itemsJSON),
		Headers:    headers,
	}
}

// NewRateLimitResponse creates a 403 response with an exhausted quota.
func NewRateLimitResponse() MockResponse {
	headers := rateLimitHeaders(0)
	headers["Content-Type"] = "application/json; charset=utf-8"
	return MockResponse{
		StatusCode: http.StatusForbidden,
		Body:       `{"message": "API rate limit exceeded"}`,
		Headers:    headers,
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	headers := rateLimitHeaders(8)
	headers["Content-Type"] = "application/json; charset=utf-8"
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"message": "Internal server error"}`,
		Headers:    headers,
	}
}

// NewConditionalHandler creates a handler that responds with 304 when the
// request carries the given ETag, and with data otherwise.
func NewConditionalHandler(etag string, data string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setRateLimitHeaders(w.Header(), 9)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "private, max-age=60, s-maxage=60")

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}
