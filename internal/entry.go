// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/foxdex/internal/actions"
	"github.com/starford/foxdex/internal/api"
	"github.com/starford/foxdex/internal/catalog"
	"github.com/starford/foxdex/internal/favicon"
	"github.com/starford/foxdex/internal/mcpserver"
	"github.com/starford/foxdex/internal/profile"
	"github.com/starford/foxdex/internal/rebuild"
	"github.com/starford/foxdex/internal/settings"
	"github.com/starford/foxdex/internal/sse"
)

// core is the assembled domain: everything below the serving surfaces.
type core struct {
	locator  *profile.Locator
	settings *settings.Store
	set      *catalog.Set
	coord    *rebuild.Coordinator
}

// buildCore wires locator, settings, catalog, pipeline, and coordinator,
// and schedules the initial rebuild when a profile is available.
func buildCore(cfg *Config, broker *sse.Broker, logger *slog.Logger) (*core, error) {
	locator := profile.NewLocator(cfg.Firefox.Root, logger)

	st, err := settings.Open(cfg.Data.Path)
	if err != nil {
		return nil, fmt.Errorf("init settings: %w", err)
	}

	profiles := locator.List()
	if len(profiles) == 0 {
		// Degrade rather than fail: the service stays up with an empty
		// catalog, and a later rebuild can pick up newly created profiles.
		logger.Error("no Firefox profiles found", slog.String("root", cfg.Firefox.Root))
	}
	if snap, changed, normErr := st.Normalize(profiles); normErr != nil {
		return nil, fmt.Errorf("normalize settings: %w", normErr)
	} else if changed {
		logger.Info("settings: profile reset", slog.String("profile", snap.ProfilePath))
	}

	defaults, err := favicon.WriteDefaults(cfg.Data.Path)
	if err != nil {
		return nil, fmt.Errorf("write default icons: %w", err)
	}

	set := catalog.NewSet()
	iconDir := filepath.Join(cfg.Data.Path, favicon.DirName)
	pipeline := rebuild.NewPipeline(locator, st, set, defaults, iconDir, broker, logger)
	coord := rebuild.NewCoordinator(pipeline, func(err error) {
		logger.Error("rebuild failed", slog.String("error", err.Error()))
	})

	if len(profiles) > 0 {
		coord.Trigger()
	}

	return &core{locator: locator, settings: st, set: set, coord: coord}, nil
}

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("firefox_root", cfg.Firefox.Root),
		slog.String("data_path", cfg.Data.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	broker := sse.NewBroker()
	defer broker.Close()

	c, err := buildCore(cfg, broker, logger)
	if err != nil {
		return err
	}
	// Shutdown waits for any in-flight rebuild; no detached work survives.
	defer c.coord.Close()

	// Build API service and router.
	svc := api.NewService(c.set, c.locator, c.settings, c.coord, broker,
		actions.SystemBrowser{}, actions.SystemClipboard{})
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the selected profile's store files for changes.
	g.Go(func() error {
		err := rebuild.Watch(gCtx, c.locator,
			func() string { return c.settings.Snapshot().ProfilePath },
			c.coord.Trigger, logger)
		if err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the MCP stdio server with the given options. Logs go to
// stderr so stdout stays clean for the MCP transport.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	c, err := buildCore(cfg, nil, logger)
	if err != nil {
		return err
	}
	defer c.coord.Close()

	srv := mcpserver.New(c.set, c.locator, c.settings, c.coord)
	return srv.ServeStdio()
}
