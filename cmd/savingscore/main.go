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
	"golang.org/x/sync/errgroup"

	"github.com/abreu/savings-core-go/internal/config"
	"github.com/abreu/savings-core-go/internal/domain"
	"github.com/abreu/savings-core-go/internal/handler"
	"github.com/abreu/savings-core-go/internal/infra/cache"
	"github.com/abreu/savings-core-go/internal/infra/glclient"
	"github.com/abreu/savings-core-go/internal/infra/memstore"
	"github.com/abreu/savings-core-go/internal/infra/observability"
	"github.com/abreu/savings-core-go/internal/infra/postgres"
	"github.com/abreu/savings-core-go/internal/infra/resilience"
	"github.com/abreu/savings-core-go/internal/port"
	"github.com/abreu/savings-core-go/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_postgres", cfg.UsePostgres),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("sweep_interval", cfg.SweepInterval),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "savings-core")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	productCache := cache.New[*domain.Product](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// --- Stores ---
	var accounts port.AccountStore
	var products port.ProductStore

	if cfg.UsePostgres && cfg.DatabaseURL != "" {
		logger.Info("using Postgres store")
		store, err := postgres.Open(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to open postgres", zap.Error(err))
		}
		defer store.Close()
		accounts = store
		products = store
	} else {
		logger.Info("using in-memory store")
		store := memstore.New()
		accounts = store
		products = store
	}

	// --- General ledger publisher ---
	var postings port.PostingPublisher
	if cfg.GLPublisherURL != "" {
		logger.Info("general ledger publishing enabled",
			zap.String("gl_publisher_url", cfg.GLPublisherURL),
		)
		postings = glclient.New(cfg.GLPublisherURL, cfg.HTTPTimeout, resilienceCfg, logger)
	} else {
		logger.Warn("general ledger publishing disabled: GL_PUBLISHER_URL not set")
	}

	// --- Service ---
	svc := service.New(accounts, products, postings, productCache, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(svc, metrics, logger, cfg.JWTSecret)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Daily housekeeping: inactivity sub-status ladder and time-driven fees.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				asOf := domain.Day(time.Now())
				if changed, err := svc.SweepInactivity(gctx, asOf); err != nil {
					logger.Error("inactivity sweep failed", zap.Error(err))
				} else if changed > 0 {
					logger.Info("inactivity sweep complete", zap.Int("changed", changed))
				}
				if collected, err := svc.AssessFees(gctx, asOf); err != nil {
					logger.Error("fee sweep failed", zap.Error(err))
				} else if collected > 0 {
					logger.Info("fee sweep complete", zap.Int("collected", collected))
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
