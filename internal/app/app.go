package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"ArticleComposer/internal/config"
	"ArticleComposer/internal/domain"
	"ArticleComposer/internal/infrastructure/images"
	"ArticleComposer/internal/infrastructure/llm"
	"ArticleComposer/internal/infrastructure/metrics"
	"ArticleComposer/internal/infrastructure/runlock"
	"ArticleComposer/internal/infrastructure/session"
	"ArticleComposer/internal/infrastructure/storage"
	"ArticleComposer/internal/infrastructure/telegram"
	"ArticleComposer/internal/logging"
	"ArticleComposer/internal/ports"
	"ArticleComposer/internal/usecase"
)

// Observer receives progress snapshots while a run executes.
type Observer func(usecase.Snapshot)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLStore
	metrics  *metrics.Recorder
	pipeline *usecase.Pipeline
}

// New opens the store and builds the pipeline from configuration.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open article store: %w", err)
	}

	imageProvider, err := images.New(cfg.Images)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	var generator ports.ContentGenerator
	if cfg.Generator.APIKey != "" {
		generator = llm.NewChatGPTClient(cfg.Generator)
	} else {
		baseLogger.Warn("generator api key is empty; every generation stage will fail")
	}

	var lock ports.RunLock
	if cfg.LockPath != "" {
		lock = runlock.New(cfg.LockPath)
	}

	recorder := metrics.NewRecorder()

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Generator:        generator,
		Images:           imageProvider,
		Store:            store,
		Session:          session.NewStaticProvider(cfg.Session.AuthorID),
		Notifier:         notifier,
		Metrics:          recorder,
		Lock:             lock,
		Logger:           baseLogger.With("component", "pipeline"),
		ScheduleInterval: cfg.Schedule.Interval(),
		Location:         cfg.Schedule.Location(),
		FallbackImage:    cfg.Images.Placeholder,
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		metrics:  recorder,
		pipeline: pipeline,
	}, nil
}

// Close releases the store.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Migrate creates the articles table.
func (a *Application) Migrate(ctx context.Context) error {
	return a.store.EnsureSchema(ctx)
}

// Generate runs the pipeline and streams snapshots to observer until it finishes.
func (a *Application) Generate(ctx context.Context, requests []domain.ArticleRequest, observer Observer) (usecase.RunResult, error) {
	tracker := usecase.NewProgressTracker()
	updates, cancel := tracker.Subscribe(1)
	defer cancel()

	var (
		result usecase.RunResult
		runErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		for snap := range updates {
			if observer != nil {
				observer(snap)
			}
		}
		return nil
	})
	g.Go(func() error {
		defer tracker.Close()
		result, runErr = a.pipeline.Run(ctx, requests, usecase.WithTracker(tracker))
		return nil
	})
	_ = g.Wait()

	if err := a.metrics.Push(context.WithoutCancel(ctx), a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job); err != nil {
		a.logger.Warn("metrics push failed", "error", err)
	}

	return result, runErr
}

// Preview returns the dates a run would assign.
func (a *Application) Preview(ctx context.Context, requests []domain.ArticleRequest) ([]usecase.PlannedArticle, error) {
	return a.pipeline.Preview(ctx, requests)
}
