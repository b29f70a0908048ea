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

	"github.com/starford/noteflow/internal/api"
	"github.com/starford/noteflow/internal/inbox"
	"github.com/starford/noteflow/internal/mcpserver"
	"github.com/starford/noteflow/internal/noteservice"
	"github.com/starford/noteflow/internal/parser"
	"github.com/starford/noteflow/internal/reminder"
	"github.com/starford/noteflow/internal/sse"
	"github.com/starford/noteflow/internal/storage"
	"github.com/starford/noteflow/internal/store"
)

func (app *application) setup() (*Config, *slog.Logger, error) {
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	out := app.logOutput
	if out == nil {
		out = os.Stdout
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return app.config, logger, nil
}

// Run starts the HTTP server, the inbox watcher and the reminder scheduler
// and blocks until a shutdown signal arrives or one of them fails.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	cfg, logger, err := app.setup()
	if err != nil {
		return err
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("inbox_enabled", cfg.Inbox.Enabled),
		slog.Bool("reminder_enabled", cfg.Reminder.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc := noteservice.NewService(db, noteservice.WithPublisher(broker))

	var importer *inbox.Importer
	if cfg.Inbox.Enabled {
		if err := os.MkdirAll(cfg.Inbox.Path, 0o755); err != nil {
			return fmt.Errorf("create inbox dir: %w", err)
		}
		fs, err := storage.NewFS(cfg.Inbox.Path)
		if err != nil {
			return fmt.Errorf("init inbox: %w", err)
		}
		importer = inbox.New(fs, func(ctx context.Context, doc *parser.Result) error {
			_, err := svc.ImportDocument(ctx, doc, cfg.Inbox.DefaultSegment)
			return err
		}, logger)
		if n, err := importer.Sweep(ctx); err != nil {
			logger.Warn("initial inbox sweep failed", slog.String("error", err.Error()))
		} else if n > 0 {
			logger.Info("initial inbox sweep", slog.Int("imported", n))
		}
	}

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
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if importer != nil {
		g.Go(func() error {
			return importer.Watch(gCtx, cfg.Inbox.Path)
		})
	}

	if cfg.Reminder.Enabled {
		hour, minute := cfg.Reminder.Clock()
		sched := reminder.NewScheduler(svc, hour, minute, func(n reminder.Notice) {
			broker.Publish(sse.Event{Type: reminder.EventType, Data: n})
		}, logger)
		g.Go(func() error {
			return sched.Run(gCtx)
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Stops the watcher and scheduler when shutdown came from a signal.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout against the configured database.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(app)
	}
	cfg, logger, err := app.setup()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	logger.Info("MCP server starting", slog.String("sqlite_path", cfg.SQLite.Path))
	return mcpserver.New(noteservice.NewService(db)).ServeStdio()
}
