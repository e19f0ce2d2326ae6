package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"SubSignal/internal/domain"
	"SubSignal/internal/ports"
)

// ErrNothingSelected is the single fatal pipeline condition: no source
// produced a selectable candidate, so there is nothing to rank or publish.
var ErrNothingSelected = errors.New("no ideas selected from any source")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source        ports.SnapshotSource
	SourceOrder   []string
	Selector      *Selector
	Ranker        *Ranker
	Publisher     *Publisher
	Store         ports.SnapshotStore
	SelectionPace ports.Pacer
	Logger        *slog.Logger
}

// Pipeline drives one full harvest-select-rank-publish run. Data flows
// strictly forward; stages communicate only through the artifacts the
// pipeline passes explicitly.
type Pipeline struct {
	source        ports.SnapshotSource
	sourceOrder   []string
	selector      *Selector
	ranker        *Ranker
	publisher     *Publisher
	store         ports.SnapshotStore
	selectionPace ports.Pacer
	logger        *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:        deps.Source,
		sourceOrder:   deps.SourceOrder,
		selector:      deps.Selector,
		ranker:        deps.Ranker,
		publisher:     deps.Publisher,
		store:         deps.Store,
		selectionPace: deps.SelectionPace,
		logger:        deps.Logger,
	}
}

// Run executes one sequential pipeline pass. Per-unit failures inside the
// stages degrade to fallbacks; only snapshot write errors and the
// zero-selections case are fatal. Artifacts are persisted after each stage so
// they always reflect the best available result.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("run started", "sources", len(p.sourceOrder))

	snapshot := p.source.FetchAll(ctx)
	if err := p.store.SaveCandidates(snapshot); err != nil {
		return fmt.Errorf("save candidate snapshot: %w", err)
	}

	var ideas []domain.SelectedIdea
	for _, name := range p.sourceOrder {
		posts := snapshot[name]
		if len(posts) == 0 {
			p.logger.Warn("no recent posts, skipping source", "source", name)
			continue
		}

		if err := p.selectionPace.Wait(ctx); err != nil {
			return fmt.Errorf("selection pacing: %w", err)
		}

		idea := p.selector.Select(ctx, name, posts)
		p.logger.Info("idea selected", "source", name, "title", idea.Title)
		ideas = append(ideas, idea)
	}

	if len(ideas) == 0 {
		return ErrNothingSelected
	}
	if err := p.store.SaveSelected(ideas); err != nil {
		return fmt.Errorf("save selected ideas: %w", err)
	}

	analysis := p.ranker.Rank(ctx, ideas)
	if err := p.store.SaveAnalysis(analysis); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	p.publisher.Publish(ctx, analysis, ideas)

	p.logger.Info("run completed", "ideas", len(ideas), "rankings", len(analysis.Rankings))
	return nil
}
