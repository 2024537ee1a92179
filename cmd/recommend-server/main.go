// cmd/recommend-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"donde-engine/internal/common/config"
	"donde-engine/internal/common/database"
	"donde-engine/internal/common/logger"
	"donde-engine/internal/common/observability"
	"donde-engine/internal/intent"
	"donde-engine/internal/llm"
	"donde-engine/internal/places"
	"donde-engine/internal/recommend"
	"donde-engine/internal/server"
	"donde-engine/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")

	zapLog.Info("Starting recommend server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild with the configured level and format now that config is loaded.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("recommend-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init response cache ---
	cacheTTL := time.Duration(cfg.Engine.CacheTTL) * time.Second
	var cache recommend.Cache
	if cfg.Engine.CacheBackend == "redis" {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		cache = recommend.NewRedisCache(redis.GetClient(), cacheTTL, log)
	} else {
		cache = recommend.NewMemoryCache(cacheTTL)
		zapLog.Info("Using in-process response cache", zap.Duration("ttl", cacheTTL))
	}

	// --- Init External Service Clients ---
	model := llm.NewClient(
		&llm.Config{
			BaseURL:     cfg.APIs.Anthropic.BaseURL,
			APIKey:      cfg.APIs.Anthropic.APIKey,
			Model:       cfg.APIs.Anthropic.Model,
			MaxTokens:   cfg.APIs.Anthropic.MaxTokens,
			Temperature: cfg.APIs.Anthropic.Temperature,
			Timeout:     config.GetDuration(cfg.APIs.Anthropic.Timeout),
			MaxRetries:  cfg.APIs.Anthropic.MaxRetries,
		},
		log,
	)

	var meta recommend.MetadataSource
	if cfg.APIs.Places.APIKey != "" {
		meta = places.NewClient(
			&places.Config{
				BaseURL: cfg.APIs.Places.BaseURL,
				APIKey:  cfg.APIs.Places.APIKey,
				Timeout: config.GetDuration(cfg.APIs.Places.Timeout),
			},
			log,
		)
	} else {
		zapLog.Warn("Places API key missing, live metadata disabled")
	}

	zapLog.Info("All external service clients initialized")

	// --- Assemble the engine ---
	candidates := store.New(pg.DB, log)
	classifier := intent.NewClassifier(model, log)

	engine := recommend.NewEngine(candidates, classifier, model, meta, cache,
		recommend.Config{
			CandidateLimit:     cfg.Engine.CandidateLimit,
			RejectionThreshold: cfg.Engine.RejectionThreshold,
			MaxPerCuisine:      cfg.Engine.MaxPerCuisine,
			MaxPerArea:         cfg.Engine.MaxPerArea,
			MetadataLookups:    cfg.Engine.MetadataLookups,
			MetadataTimeout:    config.GetDuration(cfg.Engine.MetadataTimeout),
		},
		obs, log,
	)

	handler := server.NewHandler(engine, log)
	router := server.NewRouter(handler, cfg.Server.AllowedOrigins, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Recommend server stopped gracefully")
}
