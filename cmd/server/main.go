package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tapspeak/backend/internal/api"
	"github.com/tapspeak/backend/internal/catalog"
	"github.com/tapspeak/backend/internal/infrastructure/config"
	"github.com/tapspeak/backend/internal/service"
	"github.com/tapspeak/backend/internal/store"

	_ "github.com/tapspeak/backend/docs" // generated swagger docs
)

// @title           TapSpeak API
// @version         1.0
// @description     Vocabulary practice scheduler for kids — tap, speak, listen, and review words on a fixed spaced-repetition ladder.

// @host      localhost:8080
// @BasePath  /

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer db.Close()

	words, err := catalog.Load(cfg.WordsPath)
	if err != nil {
		logger.Error("failed to load word catalog", "error", err, "path", cfg.WordsPath)
		os.Exit(1)
	}
	logger.Info("word catalog loaded", "words", words.Len(), "categories", len(words.Categories()))

	reviewSvc := service.NewReviewService(db, words, logger, service.Options{
		PromptDelay:      cfg.PromptDelay,
		PlaybackFallback: cfg.PlaybackFallback,
	})
	handler := api.NewHandler(db, words, reviewSvc, logger, nil)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
