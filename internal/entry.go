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
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/maurobossio/portfolio/internal/api"
	"github.com/maurobossio/portfolio/internal/mcpserver"
	"github.com/maurobossio/portfolio/internal/siteservice"
	"github.com/maurobossio/portfolio/internal/storage"
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
	if app.mcp {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.Level(),
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("store_path", cfg.Store.Path),
		slog.String("log_level", cfg.App.Level().String()))

	// Initialize storage.
	var (
		store    storage.Provider
		jsonFile *storage.JSONFile
	)
	switch cfg.Store.Driver {
	case StoreDriverSQLite:
		s, err := storage.NewSQLite(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("init sqlite store: %w", err)
		}
		if cfg.Store.Seed != "" {
			if err := s.SeedFromDocument(ctx, cfg.Store.Seed); err != nil {
				s.Close()
				return fmt.Errorf("seed sqlite store: %w", err)
			}
		}
		store = s
	default:
		s, err := storage.NewJSONFile(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("init json store: %w", err)
		}
		store = s
		jsonFile = s
	}
	defer store.Close()

	svc := siteservice.NewService(store)

	if app.mcp {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	notifier := siteservice.NewNotifier(logger)
	defer notifier.Close()
	svc.SetNotifier(notifier)

	apiRouter := api.NewRouter(svc, cfg.CORS.Origins)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the data file for out-of-band edits. Only the JSON driver has a
	// file to watch.
	if jsonFile != nil {
		g.Go(func() error {
			err := storage.Watch(gCtx, jsonFile, logger, func() {
				notifier.Publish(siteservice.Event{Kind: siteservice.EventReload})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Log store change events.
	g.Go(func() error {
		sub := notifier.Subscribe()
		defer notifier.Unsubscribe(sub)
		for {
			select {
			case <-gCtx.Done():
				return nil
			case ev, ok := <-sub:
				if !ok {
					return nil
				}
				logger.Info("store changed", slog.String("kind", ev.Kind))
			}
		}
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
