package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/harborbooks/statement-ingest/internal/domain/statements/handler"
	"github.com/harborbooks/statement-ingest/internal/domain/statements/repository"
	"github.com/harborbooks/statement-ingest/internal/domain/statements/service"
	"github.com/harborbooks/statement-ingest/internal/ingest/augment"
	"github.com/harborbooks/statement-ingest/internal/ingest/pipeline"
	"github.com/harborbooks/statement-ingest/pkg/config"
	"github.com/harborbooks/statement-ingest/pkg/cron"
	"github.com/harborbooks/statement-ingest/pkg/db"
	"github.com/harborbooks/statement-ingest/pkg/storage"
)

// Dependencies holds everything the server needs, built once at startup.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	DB        *db.DB
	Store     storage.Store
	Writer    repository.BatchWriter
	Gateway   *augment.Gateway
	Pipeline  *pipeline.Pipeline
	Service   *service.Service
	Handler   *handler.Handler
	Scheduler *cron.Scheduler
}

func initDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: logger}

	store, err := storage.New(&storage.Config{
		BasePath:      cfg.Storage.BasePath,
		RetentionDays: cfg.Storage.RetentionDays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init upload store: %w", err)
	}
	deps.Store = store

	if cfg.Database.Enabled {
		database, err := db.New(ctx, db.Config{
			DSN:             cfg.Database.DSN(),
			MaxConns:        25,
			MinConns:        5,
			MaxConnLifetime: 5 * time.Minute,
			MaxConnIdleTime: 10 * time.Minute,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to init database: %w", err)
		}
		if err := database.RunMigrations(); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		deps.DB = database
		deps.Writer = repository.NewPostgresBatchWriter(database.Pool)
		logger.Info("database connected", slog.String("db", cfg.Database.Database))
	} else {
		logger.Warn("persistence disabled, transactions will not be written")
	}

	classifier, err := buildClassifier(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if classifier != nil {
		timeout := time.Duration(cfg.Remote.TimeoutSeconds) * time.Second
		deps.Gateway = augment.NewGateway(classifier, timeout, logger)
		logger.Info("augmentation enabled", slog.String("provider", classifier.Name()))
	} else {
		logger.Info("augmentation disabled, local parsing only")
	}

	deps.Pipeline = pipeline.New(deps.Gateway, logger)
	deps.Service = service.New(deps.Pipeline, deps.Store, deps.Writer, logger)
	deps.Handler = handler.New(deps.Service, logger)
	deps.Scheduler = cron.NewScheduler(deps.Store, cfg.Storage.RetentionDays, logger)

	return deps, nil
}

// buildClassifier picks the remote provider from config. A nil classifier
// means augmentation stays off.
func buildClassifier(ctx context.Context, cfg *config.Config) (augment.Classifier, error) {
	switch cfg.Ingest.Provider {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, nil
		}
		return augment.NewGeminiClassifier(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	case "http":
		if cfg.Remote.Endpoint == "" {
			return nil, nil
		}
		client := &http.Client{Timeout: time.Duration(cfg.Remote.TimeoutSeconds+5) * time.Second}
		return augment.NewHTTPClassifier(cfg.Remote.Endpoint, client), nil
	}
	return nil, nil
}

func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
