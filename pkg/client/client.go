// Package client provides the HTTP client for the content delivery search
// API with response caching, conditional revalidation, retries, a circuit
// breaker and cancellation by URL.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/cache"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

// Client fetches delivery URLs. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	breaker    *gobreaker.CircuitBreaker
	flights    singleflight.Group
	config     Config
	logger     zerolog.Logger

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
}

// Config holds the client configuration.
type Config struct {
	// Cache stores responses. Nil disables caching.
	Cache *cache.Manager

	// User-Agent header sent with every request.
	UserAgent string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// Retry controls backoff for 5xx and network failures.
	Retry RetryConfig

	// BreakerFailures is the number of consecutive failed requests that
	// opens the circuit.
	BreakerFailures uint32

	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration
}

// DefaultConfig returns a safe default configuration using an in-memory cache.
func DefaultConfig(userAgent string) Config {
	return Config{
		Cache:           cache.NewManager(cache.NewMemoryBackend(cache.DefaultMemoryCapacity)),
		UserAgent:       userAgent,
		Timeout:         30 * time.Second,
		Retry:           DefaultRetryConfig(),
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// New creates a new delivery client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("retry max attempts must be >= 1 (got %d)", cfg.Retry.MaxAttempts)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}

	logger := logging.NewLogger(logging.ComponentClient)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "delivery",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			// cancellations say nothing about upstream health
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrContextCancelled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			breakerState.Set(float64(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:    cfg.Cache,
		breaker:  breaker,
		config:   cfg,
		logger:   logger,
		inflight: make(map[string]context.CancelFunc),
	}, nil
}

// response is the shared result of one upstream flight.
type response struct {
	body   []byte
	status int
}

// Get fetches rawURL and returns the body and HTTP status.
//
// A fresh cached response is returned without network I/O. Stale cached
// responses are revalidated with If-None-Match / If-Modified-Since.
// Concurrent calls for the same URL share one upstream request. Non-2xx
// answers are returned with a nil error; callers decide how to treat them.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, 0, fmt.Errorf("parse url: %w", err)
	}
	key := cache.KeyForURL(u)

	start := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(start).Seconds())
	}()

	var stale *cache.CacheEntry
	if c.cache != nil {
		entry, fresh, err := c.cache.Lookup(ctx, key)
		switch {
		case err == nil && fresh:
			c.logger.Debug().Str("url", rawURL).Msg("Cache hit")
			requestsTotal.WithLabelValues("cached").Inc()
			return entry.Data, entry.StatusCode, nil
		case err == nil:
			stale = entry
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("Cache get error")
		}
	}

	ch := c.flights.DoChan(key.String(), func() (interface{}, error) {
		return c.flight(ctx, key, rawURL, stale)
	})

	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, 0, res.Err
		}
		r := res.Val.(*response)
		return r.body, r.status, nil
	}
}

// flight performs the upstream request for key on behalf of every caller
// waiting on it. It is cancellable through Cancel but outlives any single
// caller's context.
func (c *Client) flight(ctx context.Context, key cache.CacheKey, rawURL string, stale *cache.CacheEntry) (*response, error) {
	flightCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	id := key.String()

	c.mu.Lock()
	c.inflight[id] = cancel
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, id)
		c.mu.Unlock()
		cancel()
	}()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(flightCtx, key, rawURL, stale)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			requestsTotal.WithLabelValues("circuit_open").Inc()
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		case flightCtx.Err() != nil:
			requestsTotal.WithLabelValues("cancelled").Inc()
			return nil, fmt.Errorf("%w: %s", ErrCancelled, rawURL)
		}
		return nil, err
	}
	return result.(*response), nil
}

// do runs the retried request and updates the cache.
func (c *Client) do(ctx context.Context, key cache.CacheKey, rawURL string, stale *cache.CacheEntry) (*response, error) {
	var result *response

	err := retryWithBackoff(ctx, c.config.Retry, c.logger, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		req.Header.Set("Accept", "application/json")

		if stale != nil && cache.ShouldMakeConditionalRequest(stale) {
			cache.AddConditionalHeaders(req, stale)
			cache.ConditionalRequestsSent.Inc()
			c.logger.Debug().
				Str("url", rawURL).
				Str("etag", stale.ETag).
				Msg("Making conditional request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues("network_error").Inc()
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("HTTP request failed")
			return &DeliveryError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        err,
			}
		}
		defer resp.Body.Close()

		requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusNotModified && stale != nil {
			result = c.revalidated(ctx, key, rawURL, stale, resp.Header)
			return nil
		}

		if errorClass := classifyStatus(resp.StatusCode); errorClass != "" {
			errorsTotal.WithLabelValues(string(errorClass)).Inc()
			c.logger.Warn().
				Str("url", rawURL).
				Int("status", resp.StatusCode).
				Str("error_class", string(errorClass)).
				Msg("Delivery request error")

			if shouldRetry(errorClass) {
				return &DeliveryError{
					StatusCode: resp.StatusCode,
					ErrorClass: errorClass,
					Message:    resp.Status,
				}
			}
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			result = &response{body: body, status: resp.StatusCode}
			return nil
		}

		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			return &DeliveryError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassNetwork,
				Message:    "read body",
				Err:        err,
			}
		}
		if len(entry.Data) == 0 {
			// an empty 200 is a transport failure for callers; never cache it
			c.logger.Warn().Str("url", rawURL).Msg("Empty response body - not cached")
			result = &response{status: entry.StatusCode}
			return nil
		}
		c.store(ctx, key, rawURL, entry)
		result = &response{body: entry.Data, status: entry.StatusCode}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// revalidated refreshes a stale entry after 304 Not Modified.
func (c *Client) revalidated(ctx context.Context, key cache.CacheKey, rawURL string, stale *cache.CacheEntry, headers http.Header) *response {
	c.logger.Debug().Str("url", rawURL).Msg("304 Not Modified - using cache")
	cache.NotModifiedResponses.Inc()

	if c.cache != nil {
		if err := c.cache.UpdateTTL(ctx, key, cache.ExpiresFromHeaders(headers)); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
		}
	}
	return &response{body: stale.Data, status: stale.StatusCode}
}

func (c *Client) store(ctx context.Context, key cache.CacheKey, rawURL string, entry *cache.CacheEntry) {
	if c.cache == nil || entry.TTL() <= 0 {
		return
	}
	if err := c.cache.Set(ctx, key, entry); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache response")
		return
	}
	c.logger.Debug().
		Str("url", rawURL).
		Dur("ttl", entry.TTL()).
		Msg("Cached response")
}

// classifyStatus categorizes an HTTP status for observability and retry.
// Successful statuses return "".
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// Cancel aborts the in-flight request for rawURL, if any. Every caller
// sharing that request receives ErrCancelled. Cancellation is best-effort:
// a response that already arrived is still delivered.
func (c *Client) Cancel(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	id := cache.KeyForURL(u).String()

	c.mu.Lock()
	cancel, ok := c.inflight[id]
	c.mu.Unlock()

	if ok {
		cancel()
		cancelledTotal.Inc()
		c.logger.Debug().Str("url", rawURL).Msg("Cancelled in-flight request")
	}
	return ok
}

// IsCached reports whether a fresh response for rawURL is cached.
func (c *Client) IsCached(ctx context.Context, rawURL string) bool {
	if c.cache == nil {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return c.cache.Contains(ctx, cache.KeyForURL(u))
}

// Close cancels every in-flight request.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, cancel := range c.inflight {
		cancel()
		delete(c.inflight, id)
	}
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager (for testing).
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
