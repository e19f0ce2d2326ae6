package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"SubSignal/internal/domain"
	"SubSignal/internal/ports"
)

// fakeCompleter scripts the LLM boundary for stage tests.
type fakeCompleter struct {
	fn    func(req ports.CompletionRequest) (string, error)
	calls int
	last  ports.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req ports.CompletionRequest) (string, error) {
	f.calls++
	f.last = req
	return f.fn(req)
}

// fakeSink records every message and can fail selected sends.
type fakeSink struct {
	sent   [][]domain.Embed
	failOn func(call int) bool
}

func (f *fakeSink) Send(_ context.Context, embeds []domain.Embed) error {
	call := len(f.sent)
	f.sent = append(f.sent, embeds)
	if f.failOn != nil && f.failOn(call) {
		return errDelivery
	}
	return nil
}

var errDelivery = errors.New("delivery failed")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func samplePosts(source string, n int) []domain.Post {
	posts := make([]domain.Post, n)
	for i := range posts {
		posts[i] = domain.Post{
			SourceID:     source,
			Title:        source + " idea " + string(rune('A'+i)),
			Body:         "A tool that solves problem " + string(rune('A'+i)),
			URL:          "https://example.com/" + source + "/" + string(rune('a'+i)),
			Score:        10 * (i + 1),
			CommentCount: i,
			CreatedAt:    1700000000 + int64(i),
		}
	}
	return posts
}
