package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/acoustic-content-samples/traveler-content-client/internal/testutil"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/cache"
)

const testUserAgent = "TestApp/1.0.0 (test@example.com)"

// newTestClient returns a client with a private memory cache and fast retries.
func newTestClient(t *testing.T, mutate ...func(*Config)) *Client {
	t.Helper()

	cfg := DefaultConfig(testUserAgent)
	cfg.Cache = cache.NewManager(cache.NewMemoryBackend(0))
	cfg.Retry = fastRetry()
	for _, m := range mutate {
		m(&cfg)
	}

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func searchURL(base string) string {
	return base + "/api/hub/delivery/v1/search?fl=document&q=type%3ACountry"
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		errorMsg string
	}{
		{
			name:   "valid config",
			config: DefaultConfig(testUserAgent),
		},
		{
			name:     "empty user agent",
			config:   DefaultConfig(""),
			errorMsg: "user-agent is required",
		},
		{
			name: "zero attempts",
			config: Config{
				UserAgent: testUserAgent,
			},
			errorMsg: "retry max attempts must be >= 1 (got 0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.errorMsg != "" {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				if err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if client == nil {
				t.Error("Client is nil")
			}
		})
	}
}

func TestNew_NilCacheAllowed(t *testing.T) {
	cfg := DefaultConfig(testUserAgent)
	cfg.Cache = nil

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if c.IsCached(context.Background(), "http://example.com/x") {
		t.Error("IsCached() = true without cache")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(testUserAgent)

	if cfg.UserAgent != testUserAgent {
		t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, testUserAgent)
	}
	if cfg.Cache == nil {
		t.Error("Cache should default to an in-memory manager")
	}
	if cfg.Cache.Layer() != "memory" {
		t.Errorf("Cache layer = %q, want memory", cfg.Cache.Layer())
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Retry.MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.BreakerFailures != 5 {
		t.Errorf("BreakerFailures = %d, want 5", cfg.BreakerFailures)
	}
}

func TestGet_UserAgentSet(t *testing.T) {
	var userAgent, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
		w.Write(testutil.SearchBody(0))
	}))
	defer server.Close()

	c := newTestClient(t)
	if _, _, err := c.Get(context.Background(), searchURL(server.URL)); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if userAgent != testUserAgent {
		t.Errorf("User-Agent = %q, want %q", userAgent, testUserAgent)
	}
	if accept != "application/json" {
		t.Errorf("Accept = %q, want application/json", accept)
	}
}

func TestGet_CacheHit(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()
	mock.SetResponse(testutil.NewSearchResponse(testutil.SearchBody(1, testutil.CountryDoc("c1", "countries/europe/france"))))

	c := newTestClient(t)
	ctx := context.Background()
	target := searchURL(mock.URL())

	if c.IsCached(ctx, target) {
		t.Error("IsCached() = true before first request")
	}

	body1, status1, err := c.Get(ctx, target)
	if err != nil {
		t.Fatalf("first Get() failed: %v", err)
	}
	body2, status2, err := c.Get(ctx, target)
	if err != nil {
		t.Fatalf("second Get() failed: %v", err)
	}

	if mock.RequestCount() != 1 {
		t.Errorf("RequestCount = %d, want 1 (second call served from cache)", mock.RequestCount())
	}
	if string(body1) != string(body2) || status1 != 200 || status2 != 200 {
		t.Errorf("cached response differs: (%d, %s) vs (%d, %s)", status1, body1, status2, body2)
	}
	if !c.IsCached(ctx, target) {
		t.Error("IsCached() = false after successful request")
	}
}

func TestGet_EmptyBodyNotCached(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()

	full := testutil.NewSearchResponse(testutil.SearchBody(1, testutil.CountryDoc("c1", "countries/europe/france")))
	empty := full
	empty.Body = nil

	var mu sync.Mutex
	served := 0
	mock.SetResponder(func(url.Values) testutil.MockResponse {
		mu.Lock()
		defer mu.Unlock()
		served++
		if served == 1 {
			return empty
		}
		return full
	})

	c := newTestClient(t)
	ctx := context.Background()
	target := searchURL(mock.URL())

	body, status, err := c.Get(ctx, target)
	if err != nil {
		t.Fatalf("first Get() failed: %v", err)
	}
	if status != http.StatusOK || len(body) != 0 {
		t.Errorf("first Get() = (%d, %q), want empty 200", status, body)
	}
	if c.IsCached(ctx, target) {
		t.Error("IsCached() = true after empty response")
	}

	body, _, err = c.Get(ctx, target)
	if err != nil {
		t.Fatalf("second Get() failed: %v", err)
	}
	if len(body) == 0 {
		t.Error("second Get() returned empty body, want the envelope")
	}
	if mock.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2 (empty response must reach upstream again)", mock.RequestCount())
	}
	if !c.IsCached(ctx, target) {
		t.Error("IsCached() = false after full response")
	}
}

func TestGet_CacheKeyIgnoresParameterOrder(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()

	c := newTestClient(t)
	ctx := context.Background()

	if _, _, err := c.Get(ctx, mock.URL()+"/search?a=1&b=2"); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if _, _, err := c.Get(ctx, mock.URL()+"/search?b=2&a=1"); err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if mock.RequestCount() != 1 {
		t.Errorf("RequestCount = %d, want 1", mock.RequestCount())
	}
}

func TestGet_RevalidatesStaleEntry(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()

	body := testutil.SearchBody(0)
	mock.SetResponse(testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"ETag":          `"v1"`,
			"Cache-Control": "max-age=1",
		},
	})

	c := newTestClient(t)
	ctx := context.Background()
	target := searchURL(mock.URL())

	if _, _, err := c.Get(ctx, target); err != nil {
		t.Fatalf("first Get() failed: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	got, status, err := c.Get(ctx, target)
	if err != nil {
		t.Fatalf("second Get() failed: %v", err)
	}

	if mock.ConditionalCount() != 1 {
		t.Errorf("ConditionalCount = %d, want 1", mock.ConditionalCount())
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200 from revalidated cache", status)
	}
	if string(got) != string(body) {
		t.Errorf("body = %s, want cached body", got)
	}
}

func TestGet_RetryOnServerError(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()

	var mu sync.Mutex
	calls := 0
	mock.SetResponder(func(url.Values) testutil.MockResponse {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return testutil.NewServerErrorResponse()
		}
		return testutil.NewSearchResponse(testutil.SearchBody(0))
	})

	c := newTestClient(t)
	_, status, err := c.Get(context.Background(), searchURL(mock.URL()))
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if mock.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2", mock.RequestCount())
	}
}

func TestGet_NoRetryOnClientError(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()
	mock.SetResponse(testutil.NewNotFoundResponse())

	c := newTestClient(t)
	ctx := context.Background()
	target := searchURL(mock.URL())

	body, status, err := c.Get(ctx, target)
	if err != nil {
		t.Fatalf("Get() returned error for 404: %v", err)
	}
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if len(body) == 0 {
		t.Error("body of 404 response should be returned")
	}
	if mock.RequestCount() != 1 {
		t.Errorf("RequestCount = %d, want 1", mock.RequestCount())
	}
	if c.IsCached(ctx, target) {
		t.Error("404 response must not be cached")
	}
}

func TestGet_RetryExhausted(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()
	mock.SetResponse(testutil.NewServerErrorResponse())

	c := newTestClient(t)
	_, _, err := c.Get(context.Background(), searchURL(mock.URL()))

	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("err = %v, want ErrRetryExhausted", err)
	}
	var de *DeliveryError
	if !errors.As(err, &de) || de.ErrorClass != ErrorClassServer {
		t.Errorf("err = %v, want server DeliveryError", err)
	}
	if mock.RequestCount() != 3 {
		t.Errorf("RequestCount = %d, want 3", mock.RequestCount())
	}
}

func TestGet_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := searchURL(server.URL)
	server.Close()

	c := newTestClient(t)
	_, _, err := c.Get(context.Background(), target)

	var de *DeliveryError
	if !errors.As(err, &de) || de.ErrorClass != ErrorClassNetwork {
		t.Errorf("err = %v, want network DeliveryError", err)
	}
}

func TestGet_CircuitBreakerOpens(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()
	mock.SetResponse(testutil.NewServerErrorResponse())

	c := newTestClient(t, func(cfg *Config) {
		cfg.Retry.MaxAttempts = 1
		cfg.BreakerFailures = 2
		cfg.BreakerTimeout = time.Minute
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := c.Get(ctx, searchURL(mock.URL())); !errors.Is(err, ErrRetryExhausted) {
			t.Fatalf("call %d: err = %v, want ErrRetryExhausted", i, err)
		}
	}

	_, _, err := c.Get(ctx, searchURL(mock.URL()))
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
	if mock.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2 (open circuit sends nothing)", mock.RequestCount())
	}
}

func TestGet_ConcurrentCallsShareRequest(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()

	resp := testutil.NewSearchResponse(testutil.SearchBody(0))
	resp.Delay = 100 * time.Millisecond
	mock.SetResponse(resp)

	c := newTestClient(t)
	target := searchURL(mock.URL())

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := c.Get(context.Background(), target)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Get() failed: %v", err)
		}
	}
	if mock.RequestCount() != 1 {
		t.Errorf("RequestCount = %d, want 1", mock.RequestCount())
	}
}

func TestCancel_AbortsInFlightRequest(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()

	resp := testutil.NewSearchResponse(testutil.SearchBody(0))
	resp.Delay = 5 * time.Second
	mock.SetResponse(resp)

	c := newTestClient(t)
	target := searchURL(mock.URL())

	done := make(chan error, 1)
	go func() {
		_, _, err := c.Get(context.Background(), target)
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for mock.RequestCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if !c.Cancel(target) {
		t.Fatal("Cancel() = false, want an in-flight request")
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("err = %v, want ErrCancelled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Get() did not return after Cancel")
	}

	if c.Cancel(target) {
		t.Error("Cancel() = true with nothing in flight")
	}
}

func TestGet_CallerContextCancelled(t *testing.T) {
	mock := testutil.NewMockDelivery()
	defer mock.Close()

	resp := testutil.NewSearchResponse(testutil.SearchBody(0))
	resp.Delay = 500 * time.Millisecond
	mock.SetResponse(resp)

	c := newTestClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := c.Get(ctx, searchURL(mock.URL()))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestGet_InvalidURL(t *testing.T) {
	c := newTestClient(t)
	if _, _, err := c.Get(context.Background(), "http://[::1"); err == nil {
		t.Error("Get() with invalid URL should fail")
	}
}
