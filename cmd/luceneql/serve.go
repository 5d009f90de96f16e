package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/foundatiofx/go-lucene/internal/api"
	"github.com/foundatiofx/go-lucene/internal/config"
	"github.com/foundatiofx/go-lucene/internal/observability"
	"github.com/foundatiofx/go-lucene/internal/parsecache"
	"github.com/foundatiofx/go-lucene/internal/ratelimit"
	"github.com/foundatiofx/go-lucene/internal/schema"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	logger.Infof("Starting luceneql v%s", api.Version)
	logger.Infof("Server will listen on %s", cfg.GetAddress())

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
		logger.Infof("Metrics enabled on %s%s", cfg.GetMetricsAddress(), cfg.Metrics.Path)
	}

	schemaRegistry := schema.NewRegistry()
	logger.Info("Schema registry initialized")

	var cache *parsecache.ParseCache
	if cfg.Engine.ParseCacheEnabled {
		cache = parsecache.NewParseCache(cfg.Engine.ParseCacheSize, cfg.Engine.ParseCacheTTL)
		logger.Infof("Parse cache enabled: size=%d ttl=%s", cfg.Engine.ParseCacheSize, cfg.Engine.ParseCacheTTL)
	}

	rateLimiter := ratelimit.NewRateLimiter(cfg.Limits.RateLimit.RequestsPerMinute, cfg.Limits.RateLimit.Burst)
	defer rateLimiter.Stop()
	if cfg.Limits.RateLimit.Enabled {
		logger.Infof("Rate limiting enabled: %d requests/min with burst of %d",
			cfg.Limits.RateLimit.RequestsPerMinute, cfg.Limits.RateLimit.Burst)
	}

	router := api.SetupRoutes(cfg, logger, metrics, schemaRegistry, cache, rateLimiter)

	server := &http.Server{
		Addr:         cfg.GetAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Infof("Server listening on %s", cfg.GetAddress())
		serverErrors <- server.ListenAndServe()
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled && metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.GetMetricsAddress(),
			Handler: metrics.Handler(),
		}
		go func() {
			logger.Infof("Metrics server listening on %s", cfg.GetMetricsAddress())
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.ErrorWithErr(err, "Metrics server error")
			}
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.ErrorWithErr(err, "Server error")
			os.Exit(1)
		}
	case sig := <-shutdown:
		logger.Infof("Received signal: %v. Starting graceful shutdown...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.ErrorWithErr(err, "Error during server shutdown")
			if err := server.Close(); err != nil {
				logger.ErrorWithErr(err, "Error closing server")
			}
		}

		if metricsServer != nil {
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.ErrorWithErr(err, "Error during metrics server shutdown")
			}
		}

		logger.Info("Server stopped gracefully")
	}

	return nil
}
