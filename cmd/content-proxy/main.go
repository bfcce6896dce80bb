// Command content-proxy serves the traveler site's content as JSON, backed
// by the delivery client with a Redis or in-memory response cache.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/cache"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/client"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/logging"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/query"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type config struct {
	domain    string
	hubID     string
	redisURL  string
	port      string
	logLevel  string
	userAgent string
}

func loadConfig() config {
	_ = godotenv.Load()

	return config{
		domain:    getEnv("DELIVERY_DOMAIN", query.DefaultDomain),
		hubID:     getEnv("CONTENT_HUB_ID", query.DefaultContentHubID),
		redisURL:  os.Getenv("REDIS_URL"),
		port:      getEnv("PORT", "8080"),
		logLevel:  getEnv("LOG_LEVEL", "info"),
		userAgent: getEnv("USER_AGENT", "traveler-content-client/0.1.0"),
	}
}

func main() {
	cfg := loadConfig()
	logging.Setup(logging.Config{
		Level:   logging.LogLevel(cfg.logLevel),
		Output:  os.Stderr,
		Service: "content-proxy",
	})
	logger := logging.NewLogger(logging.ComponentProxy)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := newBackend(ctx, cfg.redisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up cache backend")
	}
	defer closeBackend()
	cacheLogger := logging.NewLogger(logging.ComponentCache)
	cacheLogger.Info().Str("layer", backend.Name()).Msg("Cache backend ready")

	clientCfg := client.DefaultConfig(cfg.userAgent)
	clientCfg.Cache = cache.NewManager(backend)
	deliveryClient, err := client.New(clientCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create delivery client")
	}
	defer deliveryClient.Close()

	builder := query.NewBuilder(cfg.domain, cfg.hubID, query.DefaultPageSize)
	srv := &http.Server{
		Addr:              ":" + cfg.port,
		Handler:           newRouter(newServer(deliveryClient, builder, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Str("search_endpoint", builder.SearchEndpoint()).
		Str("user_agent", cfg.userAgent).
		Msg("Starting content proxy")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// newBackend returns a Redis backend when redisURL is set and reachable,
// otherwise the in-memory backend. redisURL is either a redis:// URL or a
// host:port address.
func newBackend(ctx context.Context, redisURL string) (cache.Backend, func(), error) {
	if redisURL == "" {
		return cache.NewMemoryBackend(cache.DefaultMemoryCapacity), func() {}, nil
	}

	opts := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, nil, err
		}
		opts = parsed
	}

	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, err
	}
	return cache.NewRedisBackend(redisClient, ""), func() { redisClient.Close() }, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
