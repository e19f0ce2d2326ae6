package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"SubSignal/internal/config"
	"SubSignal/internal/domain"
	"SubSignal/internal/pacing"
	"SubSignal/internal/scanner"
)

type stubStrategy struct {
	name  string
	fetch func(source string) ([]domain.Post, error)
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(_ context.Context, source string) ([]domain.Post, error) {
	return s.fetch(source)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMultiSourceFetchAll(t *testing.T) {
	t.Parallel()

	registry := scanner.NewRegistry()
	registry.Register(&stubStrategy{name: "stub", fetch: func(source string) ([]domain.Post, error) {
		if source == "broken" {
			return nil, errors.New("upstream gone")
		}
		return []domain.Post{{SourceID: source, Title: source + " post"}}, nil
	}})

	sources := []config.SourceConfig{
		{Name: "alpha", Scanner: "stub"},
		{Name: "broken", Scanner: "stub"},
		{Name: "beta", Scanner: "stub"},
	}

	multi, err := NewMultiSource(registry, sources, pacing.NewPolicy(0), discardLogger())
	if err != nil {
		t.Fatalf("NewMultiSource error: %v", err)
	}

	snap := multi.FetchAll(context.Background())

	if len(snap) != 3 {
		t.Fatalf("expected a group per source, got %d", len(snap))
	}
	if len(snap["alpha"]) != 1 || snap["alpha"][0].Title != "alpha post" {
		t.Fatalf("unexpected alpha group: %+v", snap["alpha"])
	}
	if group, ok := snap["broken"]; !ok || len(group) != 0 {
		t.Fatalf("failed source must yield an empty group: %+v", group)
	}
	if len(snap["beta"]) != 1 {
		t.Fatal("fetch did not continue past the failed source")
	}
}

func TestMultiSourceNamesKeepOrder(t *testing.T) {
	t.Parallel()

	registry := scanner.NewRegistry()
	registry.Register(&stubStrategy{name: "stub", fetch: func(string) ([]domain.Post, error) {
		return nil, nil
	}})

	sources := []config.SourceConfig{
		{Name: "startups", Scanner: "stub"},
		{Name: "Entrepreneur", Scanner: "stub"},
		{Name: "SaaS", Scanner: "stub"},
	}

	multi, err := NewMultiSource(registry, sources, pacing.NewPolicy(0), discardLogger())
	if err != nil {
		t.Fatalf("NewMultiSource error: %v", err)
	}

	names := multi.Names()
	want := []string{"startups", "Entrepreneur", "SaaS"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order lost at %d: got %v", i, names)
		}
	}
}

func TestMultiSourceUnknownScannerFailsFast(t *testing.T) {
	t.Parallel()

	registry := scanner.NewRegistry()
	sources := []config.SourceConfig{{Name: "startups", Scanner: "missing"}}

	if _, err := NewMultiSource(registry, sources, pacing.NewPolicy(0), discardLogger()); err == nil {
		t.Fatal("expected construction error for unknown scanner")
	}
}

func TestMultiSourceNilFetchBecomesEmptyGroup(t *testing.T) {
	t.Parallel()

	registry := scanner.NewRegistry()
	registry.Register(&stubStrategy{name: "stub", fetch: func(string) ([]domain.Post, error) {
		return nil, nil
	}})

	multi, err := NewMultiSource(registry, []config.SourceConfig{{Name: "quiet", Scanner: "stub"}}, pacing.NewPolicy(0), discardLogger())
	if err != nil {
		t.Fatalf("NewMultiSource error: %v", err)
	}

	snap := multi.FetchAll(context.Background())
	if group, ok := snap["quiet"]; !ok || group == nil {
		t.Fatalf("expected non-nil empty group, got %+v", group)
	}
}
