package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/limaJavier/groupscheduling/internal/cache"
	"github.com/limaJavier/groupscheduling/internal/config"
	"github.com/limaJavier/groupscheduling/internal/metrics"
	"github.com/limaJavier/groupscheduling/internal/server"
	"github.com/limaJavier/groupscheduling/pkg/model"
	"github.com/limaJavier/groupscheduling/pkg/sat"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	responseMargin    = 10 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	solver, err := sat.NewSolver(cfg.Solver, cfg.SolverPaths)
	if err != nil {
		return err
	}

	manager := metrics.NewManager()
	scheduler := model.NewSatScheduler(solver,
		model.WithTimeout(cfg.SolverTimeout()),
		model.WithLogger(logger),
		model.WithObserver(manager.SolveObserver(cfg.Solver)),
	)

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(manager),
		server.WithMaxUploadBytes(cfg.MaxUploadBytes),
	}

	// The cache is optional: the service keeps working without Redis
	if cfg.RedisAddr != "" {
		cacheOpts := cache.DefaultOptions(cfg.RedisAddr)
		cacheOpts.DB = cfg.RedisDB
		cacheOpts.Password = cfg.RedisPassword

		resultCache, err := cache.NewRedisCache(ctx, cacheOpts)
		if err != nil {
			logger.Warn("result cache disabled", "redis_addr", cfg.RedisAddr, "error", err)
		} else {
			defer resultCache.Close()
			opts = append(opts, server.WithCache(resultCache, cfg.CacheTTL()))
			logger.Info("result cache enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.CacheTTL())
		}
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(scheduler, opts...).Router(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.SolverTimeout() + responseMargin,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	if cfg.SolverTimeoutMS == 0 {
		srv.WriteTimeout = 0
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", cfg.Addr, "solver", cfg.Solver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal
	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
