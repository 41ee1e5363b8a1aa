// main is the entry point of the Scoring API application.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Connect the key-value store engine (Redis, or SQLite for local runs)
//  4. Register the HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/scoring-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/scoring-api
package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/scoring-api/internal/api"
	"github.com/aanand-mishra/scoring-api/internal/auth"
	"github.com/aanand-mishra/scoring-api/internal/config"
	"github.com/aanand-mishra/scoring-api/internal/http/handlers/method"
	"github.com/aanand-mishra/scoring-api/internal/storage"
	"github.com/aanand-mishra/scoring-api/internal/storage/redisstore"
	"github.com/aanand-mishra/scoring-api/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config (plus env overrides for the shared
	// secrets) and fatals if anything is wrong.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)

	log.Info("starting scoring-api",
		slog.String("env", cfg.Env),
		slog.String("storage_engine", cfg.Storage.Engine),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The result is held as the storage.Store INTERFACE, not a concrete
	// engine — the dispatcher and the scoring functions never learn which
	// backend they are talking to.
	var store storage.Store
	switch cfg.Storage.Engine {
	case "sqlite":
		s, err := sqlite.New(cfg)
		if err != nil {
			log.Error("failed to initialise storage",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = s
		log.Info("storage initialised", slog.String("path", cfg.Storage.SQLitePath))
	default:
		store = redisstore.New(cfg)
		log.Info("storage initialised",
			slog.String("host", cfg.Storage.Redis.Host),
			slog.Int("port", cfg.Storage.Redis.Port))
	}

	// ── 4. Wire the Dispatcher & Routes ───────────────────────────────────
	authn := auth.New(cfg.Auth.AdminLogin, cfg.Auth.Salt, cfg.Auth.AdminSalt)
	handler := api.New(authn, store)

	// Route table:
	//   POST /method → envelope dispatch (online_score, clients_interests)
	//   anything else → JSON 404 so routing misses keep the envelope shape
	router := http.NewServeMux()
	router.HandleFunc("POST /method", method.New(log, handler))
	router.HandleFunc("/", method.NotFound())

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	// The write timeout leaves room for a full store retry cycle:
	// attempts × (socket timeout + retry delay) in the worst case.
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		ReadTimeout: 10 * time.Second,
		WriteTimeout: time.Duration(cfg.Storage.RetryAttempts) *
			(cfg.Storage.Redis.SocketTimeout + cfg.Storage.RetryDelay),
		IdleTimeout: 60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Both engines hold a connection pool worth releasing.
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Error("failed to close storage",
				slog.String("error", err.Error()))
		}
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
