package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/handlers"
	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/repositories"
	"alfredoptarigan/job-matcher/internal/services"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(logger.Options{
		JSON:    cfg.Log.JSON,
		Debug:   cfg.Log.Debug,
		Service: "job-matcher-api",
		Env:     cfg.Server.Env,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := config.CloseDatabase(db); err != nil {
			zlog.Warn("failed to close database", zap.Error(err))
		}
	}()

	userRepo := repositories.NewUserRepository(db, cfg.Collections.Users)
	offerRepo := repositories.NewJobOfferRepository(db, cfg.Collections.JobOffers)
	sourceRepo := repositories.NewJobSourceRepository(db, cfg.Collections.JobSources)

	events := services.NewNoopPublisher()
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := services.NewRedisClient(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		events = services.NewRedisPublisher(rdb, cfg.Redis.Channel)
		zlog.Info("event publisher enabled", zap.String("channel", cfg.Redis.Channel))
	}

	profiles := services.NewProfileService(userRepo, zlog)
	catalog := services.NewCatalogService(offerRepo, sourceRepo, events, zlog)
	enrichment := services.NewEnrichmentService(
		services.NewProcessorClient(cfg.Processor.URL, cfg.Processor.Timeout, zlog),
		services.NewPDFInspector(),
		userRepo,
		events,
		zlog,
	)
	trigger := services.NewJobLoadTrigger(cfg.Ingestion.TriggerURL, cfg.Ingestion.Timeout, events, zlog)
	coverLetters := services.NewCoverLetterService(
		newCoverLetterGenerator(cfg, zlog),
		offerRepo,
		userRepo,
		events,
		zlog,
	)

	if cfg.Processor.URL == "" {
		zlog.Warn("N8N_WEBHOOK_URL is not set; resume analysis will answer 599")
	}

	scheduler := services.NewSyncScheduler(
		cfg.Ingestion.SyncSchedule,
		cfg.Ingestion.SyncConcurrency,
		cfg.Ingestion.SyncTimeout,
		catalog,
		trigger,
		zlog,
	)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	validator := handlers.NewRequestValidator()
	app := handlers.NewApp(handlers.AppConfig{
		Name:           "Job Matcher API",
		MaxFileSize:    cfg.Storage.MaxFileSize,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AccessLog:      true,
	}, zlog)

	handlers.RegisterRoutes(app, handlers.Handlers{
		Auth:         handlers.NewAuthHandler(profiles, validator, zlog),
		Users:        handlers.NewUserHandler(profiles, validator, zlog),
		Upload:       handlers.NewUploadHandler(enrichment, cfg.Storage.MaxFileSize, zlog),
		Jobs:         handlers.NewJobHandler(catalog, trigger, validator, zlog),
		JobSources:   handlers.NewJobSourceHandler(catalog, validator, zlog),
		CoverLetters: handlers.NewCoverLetterHandler(coverLetters, validator, zlog),
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Job Matcher API",
			"version": "1.0.0",
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	return app.Listen(addr)
}

func newCoverLetterGenerator(cfg *config.Config, zlog *zap.Logger) services.CoverLetterGenerator {
	switch cfg.CoverLetter.Provider {
	case "gemini":
		gemini, err := services.NewGeminiService(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, zlog)
		if err != nil {
			zlog.Warn("gemini cover letter provider unavailable", zap.Error(err))
			return services.NewUnconfiguredGenerator("gemini provider")
		}
		zlog.Info("cover letter provider", zap.String("provider", "gemini"), zap.String("model", cfg.Gemini.Model))
		return services.NewGeminiGenerator(gemini, services.NewPromptBuilder())
	default:
		if cfg.CoverLetter.Provider != "webhook" {
			zlog.Warn("unknown cover letter provider, using webhook", zap.String("provider", cfg.CoverLetter.Provider))
		}
		return services.NewWebhookGenerator(cfg.CoverLetter.URL, cfg.CoverLetter.Timeout)
	}
}
