package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vigil/internal/actors"
	actorcache "vigil/internal/actors/cache"
	"vigil/internal/actors/directory"
	"vigil/internal/auditlog/handler"
	auditmetrics "vigil/internal/auditlog/metrics"
	"vigil/internal/auditlog/service"
	"vigil/internal/auditlog/store/memory"
	"vigil/internal/auditlog/store/postgres"
	"vigil/internal/platform/config"
	"vigil/internal/platform/database"
	"vigil/internal/platform/health"
	"vigil/internal/platform/logger"
	platformredis "vigil/internal/platform/redis"
	"vigil/pkg/platform/middleware/admin"
	request "vigil/pkg/platform/middleware/request"
	"vigil/pkg/platform/tracer"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log.Info("initializing vigil",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	healthHandler := health.New(cfg.Environment)

	// Event store: PostgreSQL when configured, in-memory otherwise. The
	// in-memory store keeps local development dependency-free.
	var store service.EventStore
	if cfg.Database.URL != "" {
		pool, err := database.New(cfg.Database)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		store = postgres.New(pool.DB())
	} else {
		log.Warn("no database configured, using in-memory event store")
		store = memory.New()
	}

	// Actor resolution cache: Redis when configured, per-process otherwise.
	var cache actors.Cache
	if cfg.Redis.URL != "" {
		redisClient, err := platformredis.New(cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				redisClient.RecordPoolStats()
			}
		}()
		cache = actorcache.NewRedis(redisClient.Client, cfg.Actors.CacheTTL)
	} else {
		log.Warn("no redis configured, using in-memory actor cache")
		cache = actorcache.NewMemory(cfg.Actors.CacheTTL)
	}

	dir := directory.New(cfg.Actors.DirectoryURL, cfg.Actors.DirectoryTimeout)
	resolver := actors.NewResolver(dir, cache, log,
		actors.WithTracer(tracer.NewOTel()))

	auditService, err := service.New(store, resolver,
		service.WithLogger(log),
		service.WithMetrics(auditmetrics.New()),
		service.WithTracer(tracer.NewOTel()),
		service.WithActivityScanCap(cfg.Audit.ActivityScanCap),
	)
	if err != nil {
		log.Error("failed to build audit service", "error", err)
		os.Exit(1)
	}

	auditHandler := handler.New(auditService, log)

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(request.Logger(log))
	r.Use(request.Timeout(30 * time.Second))
	r.Use(request.LatencyMiddleware(request.NewMetrics()))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(admin.RequireOperator(admin.Config{
			SharedToken:   cfg.AdminToken,
			JWTSigningKey: cfg.JWTSigningKey,
		}, log))
		auditHandler.Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
