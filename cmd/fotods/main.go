// Package main is the entry point for the fotods portfolio API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"fotods/internal/auth"
	"fotods/internal/cache"
	"fotods/internal/config"
	"fotods/internal/database"
	"fotods/internal/handlers"
	"fotods/internal/middleware"
	"fotods/internal/portfolio"
	"fotods/internal/router"
	"fotods/internal/session"
	"fotods/internal/storage"
	"fotods/internal/store"
	"fotods/internal/store/memory"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Structured logger: text at debug in development, JSON at info otherwise.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.DataBackend,
		"storage", cfg.StorageDriver,
	)

	ctx := context.Background()
	checks := make(map[string]func(context.Context) error)

	var repos store.Repositories
	var sessionBackend session.Backend
	var responseCache *cache.ResponseCache

	switch cfg.DataBackend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(db.DB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		repos = store.NewRepositories(db)
		checks["postgres"] = db.PingContext

		// Valkey holds sessions and the public response cache.
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect to valkey: %w", err)
		}
		defer valkeyClient.Close()

		sessionBackend = session.NewRedisBackend(valkeyClient)
		responseCache = cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)
		checks["valkey"] = func(ctx context.Context) error { return pingValkey(ctx, valkeyClient) }

	case config.BackendMemory:
		slog.Warn("using in-memory backend, data is lost on restart")
		repos = memory.New().Repositories()
		sessionBackend = session.NewMemoryBackend()
	}

	// Bootstrap the admin account; default categories only in development.
	err = database.Seed(ctx, repos.Users, repos.Categories, database.SeedOptions{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		Categories:    cfg.IsDev(),
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	bucket, err := openBucket(cfg)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}

	sessions := session.NewStore(sessionBackend, cfg.SessionTTL, cfg.SecureCookies())
	svc := portfolio.NewService(repos.Categories, repos.Photos)

	loginLimiter := middleware.NewRateLimiter(10, 15*time.Minute)
	defer loginLimiter.Stop()
	submitLimiter := middleware.NewRateLimiter(5, 10*time.Minute)
	defer submitLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:      sessions,
		Users:         repos.Users,
		Cache:         responseCache,
		SecureCookies: cfg.SecureCookies(),
		AllowOrigins:  cfg.CORSAllowedOrigins,
		Categories:    handlers.NewCategories(repos.Categories, svc, responseCache),
		Photos:        handlers.NewPhotos(repos.Photos, repos.Categories, svc, bucket, responseCache),
		Contact:       handlers.NewContact(repos.Messages),
		Testimonials:  handlers.NewTestimonials(repos.Testimonials, responseCache),
		Auth:          handlers.NewAuth(sessions, auth.NewService(repos.Users)),
		LoginLimiter:  loginLimiter,
		SubmitLimiter: submitLimiter,
		HealthChecks:  checks,
	})

	// WriteTimeout must accommodate large photo uploads on slow links.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openBucket returns the configured object store, or nil when uploads are
// disabled. A driver with missing credentials is treated as disabled.
func openBucket(cfg *config.Config) (storage.Bucket, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		c, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			return nil, err
		}
		if c != nil {
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
			return c, nil
		}

	case config.StorageSupabase:
		c, err := storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
		if err != nil {
			return nil, err
		}
		if c != nil {
			slog.Info("supabase storage connected", "url", cfg.SupabaseURL, "bucket", cfg.SupabaseBucket)
			return c, nil
		}
	}

	// Untyped nil, so handlers see no bucket.
	slog.Warn("object storage not configured, photo uploads disabled", "driver", cfg.StorageDriver)
	return nil, nil
}

func pingValkey(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
