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

	"github.com/starford/raido/internal/api"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/persist"
	"github.com/starford/raido/internal/session"
	"github.com/starford/raido/internal/sse"
	"github.com/starford/raido/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. In MCP mode stdout carries the
	// protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcpMode {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	storePath, err := cfg.Store.ResolvePath()
	if err != nil {
		return fmt.Errorf("resolve store path: %w", err)
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("store_path", storePath),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	// Initialize the persistence provider.
	var provider persist.Provider
	switch cfg.Store.Backend {
	case StoreBackendSQLite:
		provider, err = persist.OpenSQLite(storePath)
	default:
		provider, err = persist.NewFile(storePath)
	}
	if err != nil {
		return fmt.Errorf("init persistence: %w", err)
	}
	defer provider.Close()

	// Load prior state. A malformed snapshot must never block startup: warn
	// and begin with an empty store.
	snap, err := provider.Load()
	if err != nil {
		if !errors.Is(err, apperr.ErrMalformedState) {
			return fmt.Errorf("load bookmarks: %w", err)
		}
		logger.Warn("bookmark state is malformed, starting empty",
			slog.String("path", storePath),
			slog.String("error", err.Error()))
		snap = store.Snapshot{}
	}

	var storeOpts []store.Option
	if cfg.Store.CaseInsensitivePaths {
		storeOpts = append(storeOpts, store.WithCaseInsensitivePaths())
	}
	st := store.New(storeOpts...)
	if discarded := st.Deserialize(snap); discarded > 0 {
		logger.Warn("discarded malformed bookmark entries", slog.Int("count", discarded))
	}

	// SSE broker (HTTP mode only).
	var broker *sse.Broker
	sessOpts := []session.Option{}
	if !app.mcpMode {
		broker = sse.NewBroker(2 * time.Second)
		defer broker.Close()
		sessOpts = append(sessOpts, session.WithEvents(broker))
	}

	sess := session.New(st, logger, sessOpts...)

	saver := persist.NewSaver(provider, sess.Snapshot, cfg.Store.SaveDelay(), logger)
	defer saver.Close()
	sess.SetSaver(saver)

	if app.mcpMode {
		logger.Info("Starting MCP stdio server")
		return mcpserver.New(sess).ServeStdio()
	}

	// Build API router.
	apiRouter := api.NewRouter(sess, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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
