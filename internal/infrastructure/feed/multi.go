package feed

import (
	"context"
	"fmt"
	"log/slog"

	"SubSignal/internal/config"
	"SubSignal/internal/domain"
	"SubSignal/internal/ports"
	"SubSignal/internal/scanner"
)

// MultiSource fetches every configured source through its registered
// strategy. A source whose fetch fails contributes an empty candidate group
// and the run continues; only configuration problems surface at construction.
type MultiSource struct {
	sources []boundSource
	pace    ports.Pacer
	logger  *slog.Logger
}

type boundSource struct {
	name     string
	strategy scanner.Strategy
}

var _ ports.SnapshotSource = (*MultiSource)(nil)

// NewMultiSource resolves each configured source against the registry.
func NewMultiSource(registry *scanner.Registry, sources []config.SourceConfig, pace ports.Pacer, logger *slog.Logger) (*MultiSource, error) {
	if registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	bound := make([]boundSource, 0, len(sources))
	for _, src := range sources {
		strategy, err := registry.Resolve(src.Scanner)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}
		bound = append(bound, boundSource{name: src.Name, strategy: strategy})
	}

	return &MultiSource{sources: bound, pace: pace, logger: logger}, nil
}

// Names returns the configured source names in fetch order.
func (m *MultiSource) Names() []string {
	names := make([]string, len(m.sources))
	for i, src := range m.sources {
		names[i] = src.name
	}
	return names
}

// FetchAll walks the sources sequentially with pacing between requests and
// collects one candidate group per source.
func (m *MultiSource) FetchAll(ctx context.Context) domain.Snapshot {
	snapshot := make(domain.Snapshot, len(m.sources))

	for _, src := range m.sources {
		if err := m.pace.Wait(ctx); err != nil {
			m.logger.Warn("fetch pacing interrupted", "source", src.name, "error", err)
			snapshot[src.name] = []domain.Post{}
			continue
		}

		posts, err := src.strategy.Fetch(ctx, src.name)
		if err != nil {
			m.logger.Warn("fetch failed, continuing with empty group", "source", src.name, "error", err)
			snapshot[src.name] = []domain.Post{}
			continue
		}
		if posts == nil {
			posts = []domain.Post{}
		}

		snapshot[src.name] = posts
		m.logger.Info("fetched source", "source", src.name, "posts", len(posts))
	}

	return snapshot
}
