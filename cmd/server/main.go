package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dvloznov/ledger-bot/internal/api/handlers"
	"github.com/dvloznov/ledger-bot/internal/api/middleware"
	"github.com/dvloznov/ledger-bot/internal/command"
	"github.com/dvloznov/ledger-bot/internal/config"
	"github.com/dvloznov/ledger-bot/internal/infra"
	"github.com/dvloznov/ledger-bot/internal/infra/line"
	"github.com/dvloznov/ledger-bot/internal/logger"
	"github.com/dvloznov/ledger-bot/internal/query"
	"github.com/go-chi/chi/v5"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New()
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	port := flag.Int("port", cfg.Port, "HTTP server port (or set PORT env)")
	flag.Parse()
	cfg.Port = *port

	log := logger.NewWithOptions(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// The server still starts without a ledger; queries then answer with the unreachable text
	var source query.RecordSource
	src, err := infra.OpenSource(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.LedgerBackend).Msg("Failed to open ledger source")
	} else {
		defer src.Close()
		source = src
		log.Info().Str("backend", cfg.LedgerBackend).Msg("Ledger source ready")
	}

	lineClient, err := line.NewClient(cfg.LineChannelToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LINE client")
	}

	engine := query.NewEngine(source, log)
	callbackHandler := handlers.NewCallbackHandler(
		cfg.LineChannelSecret,
		command.NewResponder(engine, log),
		lineClient,
		log,
	)

	router := chi.NewRouter()
	router.Use(middleware.Stack(log)...)

	router.Post("/callback", callbackHandler.HandleCallback)
	router.Method(http.MethodGet, "/health", handlers.NewHealthHandler(engine))

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting webhook server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
