package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"SubSignal/internal/domain"
	"SubSignal/internal/ports"
)

const selectionSystemPrompt = "You are an expert startup analyst. Analyze ideas and select the most promising one. You MUST respond with valid JSON only, no additional text."

// promptBodyLimit bounds each post body inside the selection prompt; bodies
// are already capped at 500 by the adapter, this tightens them further.
const promptBodyLimit = 300

// Fixed fallback reasonings; downstream consumers rely on these exact strings
// to tell a model choice from a pipeline fallback.
const (
	reasonParseFailed   = "selected by score: JSON parsing failed"
	reasonServiceFailed = "selected by score: service error"
)

// Selector reduces one source's candidate group to a single idea via the
// selection model, falling back deterministically to the first post on any
// failure. It never returns an error for a non-empty group.
type Selector struct {
	completer   ports.Completer
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// NewSelector wires the selection model boundary with its decoding
// parameters.
func NewSelector(completer ports.Completer, temperature float64, maxTokens int, logger *slog.Logger) *Selector {
	return &Selector{
		completer:   completer,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// selectionDecision is the JSON object the model is instructed to return.
// SelectedNumber is a pointer so an absent field is distinguishable from an
// explicit (out-of-range) zero.
type selectionDecision struct {
	SelectedNumber *int   `json:"selected_number"`
	Title          string `json:"title"`
	Reasoning      string `json:"reasoning"`
}

// Select asks the model to choose one post from a non-empty group.
func (s *Selector) Select(ctx context.Context, source string, posts []domain.Post) domain.SelectedIdea {
	raw, err := s.completer.Complete(ctx, ports.CompletionRequest{
		System:      selectionSystemPrompt,
		Prompt:      buildSelectionPrompt(source, posts),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		JSONOnly:    true,
	})
	if err != nil {
		s.logger.Warn("selection model call failed, falling back to first post", "source", source, "error", err)
		return fallbackIdea(source, posts, reasonServiceFailed)
	}

	var decision selectionDecision
	if err := json.Unmarshal([]byte(extractJSONBlock(raw)), &decision); err != nil {
		s.logger.Warn("selection response is not valid JSON, falling back to first post", "source", source, "error", err)
		return fallbackIdea(source, posts, reasonParseFailed)
	}
	if decision.SelectedNumber == nil {
		s.logger.Warn("selection response missing selected_number, falling back to first post", "source", source)
		return fallbackIdea(source, posts, reasonServiceFailed)
	}

	idx := *decision.SelectedNumber - 1
	if idx < 0 || idx >= len(posts) {
		s.logger.Warn("selected index out of range, using first post", "source", source, "selected_number", *decision.SelectedNumber)
		idx = 0
	}

	reasoning := strings.TrimSpace(decision.Reasoning)
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}

	post := posts[idx]
	return domain.SelectedIdea{
		SourceID:  source,
		Title:     post.Title,
		Body:      post.Body,
		URL:       post.URL,
		Score:     post.Score,
		Reasoning: reasoning,
	}
}

// fallbackIdea returns the first post of the group with a fixed reasoning
// string naming the failure category.
func fallbackIdea(source string, posts []domain.Post, reason string) domain.SelectedIdea {
	post := posts[0]
	return domain.SelectedIdea{
		SourceID:  source,
		Title:     post.Title,
		Body:      post.Body,
		URL:       post.URL,
		Score:     post.Score,
		Reasoning: reason,
	}
}

func buildSelectionPrompt(source string, posts []domain.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these %d startup/business ideas from r/%s and select the ONE most promising project:\n\n", len(posts), source)

	for i, post := range posts {
		fmt.Fprintf(&b, "%d. Title: %s\n", i+1, post.Title)
		if post.Body != "" {
			fmt.Fprintf(&b, "   Description: %s\n", truncateRunes(post.Body, promptBodyLimit))
		}
		fmt.Fprintf(&b, "   Score: %d | Comments: %d\n\n", post.Score, post.CommentCount)
	}

	b.WriteString(`Select the BEST idea based on:
- Innovation & market potential
- Feasibility
- Problem-solving impact
- Community engagement (score/comments)

Respond in JSON format:
{
  "selected_number": <1-` + fmt.Sprint(len(posts)) + `>,
  "title": "<title>",
  "reasoning": "<brief explanation why this is the best>"
}`)

	return b.String()
}

// truncateRunes cuts s to at most limit characters.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
