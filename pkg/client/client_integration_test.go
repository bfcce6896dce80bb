//go:build integration

package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/acoustic-content-samples/traveler-content-client/internal/testutil"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer creates a Redis container for integration testing.
func setupRedisContainer(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	t.Cleanup(func() {
		client.Close()
		redisContainer.Terminate(ctx)
	})

	return client
}

func newRedisBackedClient(t *testing.T, redisClient *redis.Client) *Client {
	t.Helper()

	cfg := DefaultConfig("TestApp/1.0.0 (integration@test.com)")
	cfg.Cache = cache.NewManager(cache.NewRedisBackend(redisClient, "it:"))
	cfg.Retry = fastRetry()

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

func TestIntegration_FullRequestFlow(t *testing.T) {
	rc := setupRedisContainer(t)

	mock := testutil.NewMockDelivery()
	defer mock.Close()
	mock.SetResponse(testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testutil.SearchBody(1, testutil.RegionDoc("r1", "countries/europe/west/france")),
		Headers: map[string]string{
			"ETag":          `"test-etag-123"`,
			"Cache-Control": "max-age=1",
		},
	})

	ctx := context.Background()
	target := searchURL(mock.URL())

	// a second client sharing Redis sees the first one's response
	first := newRedisBackedClient(t, rc)
	second := newRedisBackedClient(t, rc)

	if _, _, err := first.Get(ctx, target); err != nil {
		t.Fatalf("Request 1 failed: %v", err)
	}
	if !second.IsCached(ctx, target) {
		t.Fatal("response not visible through the shared Redis cache")
	}
	if _, _, err := second.Get(ctx, target); err != nil {
		t.Fatalf("Request 2 failed: %v", err)
	}
	if mock.RequestCount() != 1 {
		t.Errorf("RequestCount = %d, want 1", mock.RequestCount())
	}

	time.Sleep(1100 * time.Millisecond)

	body, status, err := second.Get(ctx, target)
	if err != nil {
		t.Fatalf("Request 3 failed: %v", err)
	}
	if status != http.StatusOK || len(body) == 0 {
		t.Errorf("revalidated response = (%d, %d bytes)", status, len(body))
	}
	if mock.ConditionalCount() != 1 {
		t.Errorf("ConditionalCount = %d, want 1", mock.ConditionalCount())
	}
	if !second.IsCached(ctx, target) {
		t.Error("entry not refreshed after 304")
	}
}
