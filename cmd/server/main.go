package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bespaarwijzer/backend/config"
	httpDelivery "github.com/bespaarwijzer/backend/internal/delivery/http"
	"github.com/bespaarwijzer/backend/internal/domain"
	"github.com/bespaarwijzer/backend/internal/infrastructure/cache"
	"github.com/bespaarwijzer/backend/internal/infrastructure/feed"
	"github.com/bespaarwijzer/backend/internal/observability"
	"github.com/bespaarwijzer/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "bespaarwijzer-backend",
	})

	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("starting bespaarwijzer backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	cacheRepo, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cache")
	}
	defer closeCache()

	var feedClient domain.FeedClient
	if cfg.Feed.BaseURL != "" {
		feedClient = feed.NewClient(cfg.Feed.BaseURL, feed.ClientConfig{
			Timeout:           cfg.Feed.Timeout,
			RequestsPerSecond: cfg.Feed.RequestsPerSecond,
			Burst:             cfg.Feed.Burst,
			Logger:            &logger,
		})
		logger.Info().Str("base_url", cfg.Feed.BaseURL).Msg("product feed configured")
	} else {
		logger.Warn().Msg("no product feed configured, GET /api/v1/comparisons will return 503")
	}

	// Initialize usecase layer
	comparisonService := usecase.NewComparisonService(
		cacheRepo,
		feedClient,
		usecase.ComparisonServiceConfig{
			CacheTTL: cfg.Cache.TTL,
			Matching: matchConfig(cfg.Matching),
		},
		logger,
	)

	logger.Info().
		Int("min_savings_pct", cfg.Matching.MinSavingsPct).
		Float64("min_name_similarity", cfg.Matching.MinNameSimilarity).
		Int("workers", cfg.Matching.Workers).
		Bool("debug", cfg.Matching.EnableDebugLogging).
		Msg("matching configured")

	handler := httpDelivery.NewHandler(comparisonService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newCache builds the configured cache backend and its close function
func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	default:
		memoryCache := cache.NewMemoryCache()
		return memoryCache, func() { _ = memoryCache.Close() }, nil
	}
}

func matchConfig(m config.MatchingConfig) usecase.MatchConfig {
	return usecase.MatchConfig{
		MinSavingsPct:      m.MinSavingsPct,
		MaxResults:         m.MaxResults,
		MinNameSimilarity:  m.MinNameSimilarity,
		MaxVolumeRatio:     m.MaxVolumeRatio,
		MaxCountRatio:      m.MaxCountRatio,
		Workers:            m.Workers,
		EnableDebugLogging: m.EnableDebugLogging,
	}
}

