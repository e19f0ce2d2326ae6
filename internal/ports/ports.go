package ports

import (
	"context"
	"time"

	"SubSignal/internal/domain"
)

// PostSource pulls fresh candidate posts for one named community source.
type PostSource interface {
	Fetch(ctx context.Context, source string) ([]domain.Post, error)
}

// SnapshotSource fetches every configured source into one snapshot. Per-source
// failures are converted into empty entries; they never fail the whole fetch.
type SnapshotSource interface {
	FetchAll(ctx context.Context) domain.Snapshot
}

// CompletionRequest carries one prompt plus decoding parameters to an LLM
// boundary. JSONOnly asks the service for a JSON-typed response when the
// vendor supports that mode.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	JSONOnly    bool
}

// Completer is a narrow text-completion boundary; an implementation wraps one
// concrete vendor model so the pipeline stages stay vendor-agnostic.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Sink delivers one chat message (a sequence of embeds) to the outbound
// webhook. Any non-2xx status is a delivery error for that message only.
type Sink interface {
	Send(ctx context.Context, embeds []domain.Embed) error
}

// SnapshotStore persists run artifacts as flat JSON documents, overwriting
// the previous run.
type SnapshotStore interface {
	SaveCandidates(snapshot domain.Snapshot) error
	SaveSelected(ideas []domain.SelectedIdea) error
	SaveAnalysis(analysis domain.AnalysisResult) error
}

// Pacer enforces a minimum interval between consecutive calls to one
// external service.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
