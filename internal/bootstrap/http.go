package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthhq/dealdesk/config"
	"github.com/hearthhq/dealdesk/internal/core"
	httpx "github.com/hearthhq/dealdesk/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil || cfg.Services == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	var cache core.CacheRepository
	if cfg.Services.Cache != nil {
		cache = cfg.Services.Cache
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Jobs:         cfg.Services.Jobs,
		Patches:      cfg.Services.Patches,
		Timeline:     cfg.Services.Timeline,
		Cache:        cache,
		ApplyLockTTL: appCfg.Apply.LockTTL,
		Logger:       logger,
	})

	return startServer(logger, handler, appCfg.HTTP)
}

func startServer(logger *slog.Logger, handler http.Handler, cfg config.HTTPConfig) *http.Server {
	addr := cfg.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context  context.Context
	Server   *http.Server
	Services *ServiceContainer
	Grace    time.Duration
	Logger   *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server and the job
// observation streams behind it.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	// Stop observation streams first so in-flight SSE responses end cleanly.
	if cfg.Services != nil && cfg.Services.Jobs != nil {
		cfg.Services.Jobs.StopObservers()
	}

	grace := cfg.Grace
	if grace <= 0 {
		grace = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(cfg.Context, grace)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
