package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/arcadetally/tally/internal/adapters/http/api"
	"github.com/arcadetally/tally/internal/app"
	"github.com/arcadetally/tally/internal/config"
	"github.com/arcadetally/tally/pkg/logger"
	"github.com/arcadetally/tally/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithShardCount(cfg.ShardCount),
		app.WithLocation(cfg.Location()),
		app.WithSnapshotTTL(time.Duration(cfg.SnapshotCacheTTLMS)*time.Millisecond),
		app.WithDatabaseURL(cfg.DatabaseURL),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, api.Limits{
		DefaultTopN:  cfg.DefaultTopN,
		MaxTopN:      cfg.MaxTopN,
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
	})
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater periodically refreshes process-level gauges.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
