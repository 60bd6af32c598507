package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/lector/internal/answer"
	"github.com/MikeSquared-Agency/lector/internal/api"
	"github.com/MikeSquared-Agency/lector/internal/artifacts"
	"github.com/MikeSquared-Agency/lector/internal/config"
	"github.com/MikeSquared-Agency/lector/internal/extract"
	"github.com/MikeSquared-Agency/lector/internal/hermes"
	"github.com/MikeSquared-Agency/lector/internal/library"
	"github.com/MikeSquared-Agency/lector/internal/pipeline"
	"github.com/MikeSquared-Agency/lector/internal/session"
	"github.com/MikeSquared-Agency/lector/internal/slack"
	"github.com/MikeSquared-Agency/lector/internal/store"
	"github.com/MikeSquared-Agency/lector/internal/vox"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("lector starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Anthropic answer generator
	if cfg.AnthropicAPIKey == "" {
		slog.Error("ANTHROPIC_API_KEY is required")
		os.Exit(1)
	}
	generator := answer.NewGenerator(cfg.AnthropicAPIKey, cfg.AnthropicModel, slog.Default())
	slog.Info("answer generator ready", "model", cfg.AnthropicModel)

	// On-disk stores
	lib, err := library.New(cfg.BookDir)
	if err != nil {
		slog.Error("failed to open document library", "dir", cfg.BookDir, "error", err)
		os.Exit(1)
	}
	arts, err := artifacts.New(cfg.UploadDir)
	if err != nil {
		slog.Error("failed to open artifacts store", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// Database (optional — lector answers questions without the audit trail)
	var db *store.Store
	if cfg.DatabaseURL != "" {
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set — transactions will not be logged")
	}

	// Vox speech gateway
	voxClient := vox.NewClient(cfg.VoxURL, slog.Default())
	slog.Info("vox client ready", "url", cfg.VoxURL)

	// NATS/Hermes (optional — events are best-effort)
	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		hermesClient, err = hermes.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Warn("failed to connect to NATS — running without events", "error", err)
			hermesClient = nil
		} else {
			defer hermesClient.Close()
			slog.Info("NATS connected", "url", cfg.NatsURL)
		}
	}

	// Slack poster (optional — lector works without the answer digest)
	var slackPoster *slack.Poster
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		slackPoster = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured — running without answer digests")
	}

	// Session and pipeline
	sess := session.New()
	pipe := pipeline.New(sess, voxClient, generator, voxClient, arts, slog.Default())

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, api.Deps{
		Session:    sess,
		Pipeline:   pipe,
		Extractors: extract.NewRegistry(),
		Library:    lib,
		Artifacts:  arts,
		Store:      db,
		Hermes:     hermesClient,
		Slack:      slackPoster,
		Logger:     slog.Default(),
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if hermesClient != nil {
		if err := hermesClient.Publish(hermes.SubjectRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("lector ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("lector stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
