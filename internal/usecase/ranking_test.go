package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"SubSignal/internal/domain"
	"SubSignal/internal/ports"
)

func sampleIdeas(n int) []domain.SelectedIdea {
	ideas := make([]domain.SelectedIdea, n)
	for i := range ideas {
		ideas[i] = domain.SelectedIdea{
			SourceID:  "source" + string(rune('1'+i)),
			Title:     "Idea " + string(rune('A'+i)),
			Body:      "Body of idea " + string(rune('A'+i)),
			URL:       "https://example.com/" + string(rune('a'+i)),
			Score:     5 * (i + 1),
			Reasoning: "picked for reason " + string(rune('A'+i)),
		}
	}
	return ideas
}

func TestRankParsesModelResponse(t *testing.T) {
	t.Parallel()

	ideas := sampleIdeas(2)
	completer := &fakeCompleter{fn: func(ports.CompletionRequest) (string, error) {
		return `{
  "rankings": [
    {"rank": 2, "title": "Idea A", "subreddit": "source1", "validation_score": 6, "market_potential": "niche", "recommendation": "watch"},
    {"rank": 1, "title": "Idea B", "subreddit": "source2", "validation_score": 9, "market_potential": "large", "feasibility": "high", "key_risks": "competition", "recommendation": "invest"}
  ],
  "overall_analysis": "B is the stronger play."
}`, nil
	}}
	ranker := NewRanker(completer, 0.3, testLogger())

	analysis := ranker.Rank(context.Background(), ideas)

	if len(analysis.Rankings) != 2 {
		t.Fatalf("expected 2 rankings, got %d", len(analysis.Rankings))
	}
	if analysis.OverallAnalysis != "B is the stronger play." {
		t.Fatalf("unexpected overall analysis: %q", analysis.OverallAnalysis)
	}
	if analysis.Rankings[1].Rank != 1 || analysis.Rankings[1].Recommendation != domain.RecommendInvest {
		t.Fatalf("unexpected entry: %+v", analysis.Rankings[1])
	}
}

func TestRankPromptIncludesSelectionReasoning(t *testing.T) {
	t.Parallel()

	ideas := sampleIdeas(3)
	completer := &fakeCompleter{fn: func(ports.CompletionRequest) (string, error) {
		return "", errors.New("unavailable")
	}}
	ranker := NewRanker(completer, 0.3, testLogger())

	ranker.Rank(context.Background(), ideas)

	if completer.last.System != "" {
		t.Fatalf("ranking boundary takes no system instruction, got %q", completer.last.System)
	}
	for _, idea := range ideas {
		if !strings.Contains(completer.last.Prompt, idea.Reasoning) {
			t.Fatalf("prompt missing selection reasoning %q", idea.Reasoning)
		}
		if !strings.Contains(completer.last.Prompt, idea.Title) {
			t.Fatalf("prompt missing title %q", idea.Title)
		}
	}
}

func TestRankServiceErrorDegrades(t *testing.T) {
	t.Parallel()

	ideas := sampleIdeas(4)
	completer := &fakeCompleter{fn: func(ports.CompletionRequest) (string, error) {
		return "", errors.New("deadline exceeded")
	}}
	ranker := NewRanker(completer, 0.3, testLogger())

	analysis := ranker.Rank(context.Background(), ideas)

	if len(analysis.Rankings) != len(ideas) {
		t.Fatalf("expected %d rankings, got %d", len(ideas), len(analysis.Rankings))
	}
	for i, entry := range analysis.Rankings {
		if entry.Rank != i+1 {
			t.Fatalf("entry %d: expected input-order rank %d, got %d", i, i+1, entry.Rank)
		}
		if entry.Title != ideas[i].Title || entry.SourceID != ideas[i].SourceID {
			t.Fatalf("entry %d does not mirror input: %+v", i, entry)
		}
		if entry.ValidationScore != 7 {
			t.Fatalf("entry %d: expected neutral score 7, got %d", i, entry.ValidationScore)
		}
		if entry.MarketPotential != "Analysis unavailable" {
			t.Fatalf("entry %d: unexpected market potential %q", i, entry.MarketPotential)
		}
		if entry.Recommendation != domain.RecommendWatch {
			t.Fatalf("entry %d: expected watch, got %q", i, entry.Recommendation)
		}
	}
	if analysis.OverallAnalysis != "Ranking analysis failed. Manual review recommended." {
		t.Fatalf("unexpected overall analysis: %q", analysis.OverallAnalysis)
	}
}

func TestRankMalformedResponseDegrades(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		reply string
	}{
		{"not json", "the best idea is clearly the second one"},
		{"wrong length", `{"rankings": [{"rank": 1, "title": "Idea A"}], "overall_analysis": "x"}`},
		{"duplicate ranks", `{"rankings": [{"rank": 1, "title": "Idea A"}, {"rank": 1, "title": "Idea B"}], "overall_analysis": "x"}`},
		{"rank out of range", `{"rankings": [{"rank": 0, "title": "Idea A"}, {"rank": 2, "title": "Idea B"}], "overall_analysis": "x"}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ideas := sampleIdeas(2)
			completer := &fakeCompleter{fn: func(ports.CompletionRequest) (string, error) {
				return tc.reply, nil
			}}
			ranker := NewRanker(completer, 0.3, testLogger())

			analysis := ranker.Rank(context.Background(), ideas)
			if len(analysis.Rankings) != 2 {
				t.Fatalf("expected degraded ranking of length 2, got %d", len(analysis.Rankings))
			}
			if analysis.OverallAnalysis != "Ranking analysis failed. Manual review recommended." {
				t.Fatalf("expected degraded analysis, got %q", analysis.OverallAnalysis)
			}
		})
	}
}

func TestRankSingleIdeaIsValid(t *testing.T) {
	t.Parallel()

	ideas := sampleIdeas(1)
	completer := &fakeCompleter{fn: func(ports.CompletionRequest) (string, error) {
		return "", errors.New("unavailable")
	}}
	ranker := NewRanker(completer, 0.3, testLogger())

	analysis := ranker.Rank(context.Background(), ideas)
	if len(analysis.Rankings) != 1 || analysis.Rankings[0].Rank != 1 {
		t.Fatalf("expected degenerate single ranking, got %+v", analysis.Rankings)
	}
}

func TestValidateRankings(t *testing.T) {
	t.Parallel()

	good := []domain.RankingEntry{{Rank: 2}, {Rank: 1}, {Rank: 3}}
	if err := validateRankings(good, 3); err != nil {
		t.Fatalf("valid permutation rejected: %v", err)
	}

	if err := validateRankings([]domain.RankingEntry{{Rank: 1}}, 2); err == nil {
		t.Fatal("length mismatch accepted")
	}
}
