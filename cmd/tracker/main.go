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

	"golang.org/x/sync/errgroup"

	"tracker/internal/cache"
	"tracker/internal/cli"
	"tracker/internal/config"
	"tracker/internal/dashboard"
	apphttp "tracker/internal/http"
	"tracker/internal/ledger"
	"tracker/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Tracker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	res, err := cli.InitBackend(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", log.FieldError, err)
			}
		}()
	}

	store := ledger.New(res.Backend,
		ledger.WithKey(cfg.StorageKey),
		ledger.WithLogger(logger),
	)
	store.Load(ctx)

	views, err := cache.New[dashboard.View](cache.Kind(cfg.CacheBackend), cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return fmt.Errorf("init dashboard cache: %w", err)
	}
	defer cache.Close(views)
	dash := dashboard.NewService(store, views, cfg.TrendMonths, cfg.RecentCount,
		dashboard.WithLogger(logger))
	store.Subscribe(dash.Invalidate)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               cfg.Addr(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, apphttp.Deps{
		Ledger:    store,
		Dashboard: dash,
		Ready:     res.Backend,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting tracker server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"cache", cfg.CacheBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
