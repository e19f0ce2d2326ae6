package app

import (
	"context"
	"fmt"
	"log/slog"

	"SubSignal/internal/config"
	"SubSignal/internal/infrastructure/discord"
	"SubSignal/internal/infrastructure/feed"
	"SubSignal/internal/infrastructure/llm"
	"SubSignal/internal/infrastructure/scheduler"
	"SubSignal/internal/infrastructure/snapshot"
	"SubSignal/internal/logging"
	"SubSignal/internal/pacing"
	"SubSignal/internal/ports"
	"SubSignal/internal/scanner"
	"SubSignal/internal/usecase"
)

// Application wires configuration to the pipeline and its run mode.
type Application struct {
	cfg       config.Config
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
}

// New builds a runnable application. It fails fast on missing credentials
// and on source/scanner misconfiguration, before any network work.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	registry := scanner.NewRegistry()
	registry.Register(feed.NewFeedStrategy(nil))
	registry.Register(feed.NewListingStrategy(nil))

	source, err := feed.NewMultiSource(
		registry,
		cfg.Sources,
		pacing.NewPolicy(cfg.Pacing.FetchInterval.Std()),
		baseLogger.With("component", "source"),
	)
	if err != nil {
		return nil, fmt.Errorf("configure sources: %w", err)
	}

	selector := usecase.NewSelector(
		llm.NewGroqClient(cfg.Selection),
		cfg.Selection.Temperature,
		cfg.Selection.MaxTokens,
		baseLogger.With("component", "selection"),
	)

	ranker := usecase.NewRanker(
		llm.NewGeminiClient(cfg.Ranking),
		cfg.Ranking.Temperature,
		baseLogger.With("component", "ranking"),
	)

	var sink ports.Sink
	if cfg.Sink.WebhookURL != "" {
		sink = discord.NewWebhook(cfg.Sink.WebhookURL, cfg.Sink.Username)
	}
	publisher := usecase.NewPublisher(
		sink,
		pacing.NewPolicy(cfg.Pacing.PublishInterval.Std()),
		baseLogger.With("component", "publication"),
	)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:        source,
		SourceOrder:   source.Names(),
		Selector:      selector,
		Ranker:        ranker,
		Publisher:     publisher,
		Store:         snapshot.NewStore(cfg.Snapshots.Dir),
		SelectionPace: pacing.NewPolicy(cfg.Pacing.SelectionInterval.Std()),
		Logger:        baseLogger.With("component", "pipeline"),
	})

	a := &Application{cfg: cfg, pipeline: pipeline}
	if cfg.Scheduler.Recurring {
		driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval.Std())
		a.scheduler = usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler"))
	}

	return a, nil
}

// Run performs one pipeline execution, or keeps running on the configured
// interval in recurring mode until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return a.scheduler.Stop(context.Background())
	}

	return a.pipeline.Run(ctx)
}
