// Package testutil provides testing utilities for the delivery client.
package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock search response.
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
	Delay      time.Duration
}

// Responder produces the response for one search request.
type Responder func(query url.Values) MockResponse

// MockDelivery is a configurable mock delivery search server for testing.
type MockDelivery struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responder Responder

	requestCount     int
	conditionalCount int
	queries          []url.Values
}

// NewMockDelivery creates a mock server that answers every search with an
// empty result until a responder is set.
func NewMockDelivery() *MockDelivery {
	mock := &MockDelivery{
		responder: func(url.Values) MockResponse {
			return NewSearchResponse(SearchBody(0))
		},
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		mock.mu.Lock()
		mock.requestCount++
		mock.queries = append(mock.queries, query)
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.conditionalCount++
		}
		responder := mock.responder
		mock.mu.Unlock()

		resp := responder(query)
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}

		if etag, ok := resp.Headers["ETag"]; ok && r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if len(resp.Body) > 0 {
			w.Write(resp.Body)
		}
	}))

	return mock
}

// URL returns the mock server URL, usable as the delivery domain.
func (m *MockDelivery) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockDelivery) Close() {
	m.server.Close()
}

// SetResponder replaces the response function.
func (m *MockDelivery) SetResponder(r Responder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responder = r
}

// SetResponse answers every request with resp.
func (m *MockDelivery) SetResponse(resp MockResponse) {
	m.SetResponder(func(url.Values) MockResponse { return resp })
}

// Reset clears all tracking counters.
func (m *MockDelivery) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.conditionalCount = 0
	m.queries = nil
}

// RequestCount returns the number of requests served.
func (m *MockDelivery) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// ConditionalCount returns the number of conditional requests served.
func (m *MockDelivery) ConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conditionalCount
}

// Queries returns the query parameters of every request, in arrival order.
func (m *MockDelivery) Queries() []url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]url.Values, len(m.queries))
	copy(out, m.queries)
	return out
}

// NewSearchResponse creates a 200 OK JSON response.
func NewSearchResponse(body []byte) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
			"Expires":      time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       []byte(`{"errors":[{"message":"Internal server error"}]}`),
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       []byte(`{"errors":[{"message":"Not found"}]}`),
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// PagedResponder serves docs honoring the start and rows parameters and
// reports len(docs) as numFound.
func PagedResponder(docs ...Doc) Responder {
	return func(query url.Values) MockResponse {
		start, _ := strconv.Atoi(query.Get("start"))
		rows, err := strconv.Atoi(query.Get("rows"))
		if err != nil || rows <= 0 {
			rows = len(docs)
		}
		if start > len(docs) {
			start = len(docs)
		}
		end := start + rows
		if end > len(docs) {
			end = len(docs)
		}
		return NewSearchResponse(SearchBody(len(docs), docs[start:end]...))
	}
}

// HTTPGetter performs plain, uncached GETs. It satisfies the getter
// interface consumed by fetchers.
type HTTPGetter struct{}

// Get fetches rawURL and returns the body and status.
func (HTTPGetter) Get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return body, resp.StatusCode, err
}
