package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/MekhyW/Link-AutoJourney/internal/ai"
	"github.com/MekhyW/Link-AutoJourney/internal/batch"
	"github.com/MekhyW/Link-AutoJourney/internal/canvas"
	"github.com/MekhyW/Link-AutoJourney/internal/config"
	"github.com/MekhyW/Link-AutoJourney/internal/controller"
	"github.com/MekhyW/Link-AutoJourney/internal/logger"
	"github.com/MekhyW/Link-AutoJourney/internal/pipeline"
	"github.com/MekhyW/Link-AutoJourney/internal/server"
	"github.com/MekhyW/Link-AutoJourney/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Pretty)

	store := storage.New()
	if cfg.Snapshot.Path != "" {
		if err := store.LoadSnapshot(cfg.Snapshot.Path, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to load snapshot")
		}
	}

	canvasClient := canvas.NewClient(canvas.Config{
		BaseURL: cfg.Canvas.BaseURL,
		APIKey:  cfg.Canvas.APIKey,
	}, log)

	gateway := ai.NewClient(ai.Config{
		APIKey:        cfg.AI.APIKey,
		Model:         cfg.AI.Model,
		BaseURL:       cfg.AI.BaseURL,
		MaxTokens:     cfg.AI.MaxTokens,
		MinInterval:   cfg.AI.MinInterval,
		MaxContentLen: cfg.AI.MaxContentLen,
	}, log)

	queue := batch.New(cfg.Batch.GroupSize, cfg.Batch.GroupDelay, log)
	pipe := pipeline.New(store, canvasClient, gateway, queue, log)
	ctrl := controller.NewController(store, canvasClient, gateway, pipe, log)

	srv := server.NewServer(cfg, ctrl, store, log)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to run server")
		}
	}()

	log.Info().Str("address", cfg.Server.Address).Msg("API server started")

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}

	log.Info().Msg("Server stopped")
}
