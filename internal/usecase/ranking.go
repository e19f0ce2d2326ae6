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

// rankingBodyLimit bounds each idea body inside the ranking prompt.
const rankingBodyLimit = 400

// Degraded-ranking constants used when the ranking model cannot be consulted.
const (
	fallbackValidationScore = 7
	fallbackMarketPotential = "Analysis unavailable"
	fallbackOverallAnalysis = "Ranking analysis failed. Manual review recommended."
)

// Ranker reduces the per-source selections to one scored, ordered report via
// the ranking model. On any failure it degrades to an input-order ranking
// with neutral scores; it never returns an error.
type Ranker struct {
	completer   ports.Completer
	temperature float64
	logger      *slog.Logger
}

// NewRanker wires the ranking model boundary.
func NewRanker(completer ports.Completer, temperature float64, logger *slog.Logger) *Ranker {
	return &Ranker{
		completer:   completer,
		temperature: temperature,
		logger:      logger,
	}
}

// Rank analyzes all selected ideas in one cross-source call. The returned
// rankings always have exactly one entry per input idea, with rank values
// forming a permutation of 1..len(ideas). A single idea yields a valid
// degenerate ranking.
func (r *Ranker) Rank(ctx context.Context, ideas []domain.SelectedIdea) domain.AnalysisResult {
	raw, err := r.completer.Complete(ctx, ports.CompletionRequest{
		Prompt:      buildRankingPrompt(ideas),
		Temperature: r.temperature,
		JSONOnly:    true,
	})
	if err != nil {
		r.logger.Warn("ranking model call failed, using degraded ranking", "error", err)
		return degradedAnalysis(ideas)
	}

	var analysis domain.AnalysisResult
	if err := json.Unmarshal([]byte(extractJSONBlock(raw)), &analysis); err != nil {
		r.logger.Warn("ranking response is not valid JSON, using degraded ranking", "error", err)
		return degradedAnalysis(ideas)
	}
	if err := validateRankings(analysis.Rankings, len(ideas)); err != nil {
		r.logger.Warn("ranking response is malformed, using degraded ranking", "error", err)
		return degradedAnalysis(ideas)
	}

	return analysis
}

// validateRankings checks that the model returned one entry per idea with
// rank values forming a permutation of 1..n.
func validateRankings(rankings []domain.RankingEntry, n int) error {
	if len(rankings) != n {
		return fmt.Errorf("expected %d rankings, got %d", n, len(rankings))
	}

	seen := make(map[int]bool, n)
	for _, entry := range rankings {
		if entry.Rank < 1 || entry.Rank > n {
			return fmt.Errorf("rank %d outside 1..%d", entry.Rank, n)
		}
		if seen[entry.Rank] {
			return fmt.Errorf("duplicate rank %d", entry.Rank)
		}
		seen[entry.Rank] = true
	}

	return nil
}

// degradedAnalysis emits one entry per idea in input order with neutral
// scores, flagged for manual review.
func degradedAnalysis(ideas []domain.SelectedIdea) domain.AnalysisResult {
	rankings := make([]domain.RankingEntry, len(ideas))
	for i, idea := range ideas {
		rankings[i] = domain.RankingEntry{
			Rank:            i + 1,
			Title:           idea.Title,
			SourceID:        idea.SourceID,
			ValidationScore: fallbackValidationScore,
			MarketPotential: fallbackMarketPotential,
			Recommendation:  domain.RecommendWatch,
		}
	}

	return domain.AnalysisResult{
		Rankings:        rankings,
		OverallAnalysis: fallbackOverallAnalysis,
	}
}

func buildRankingPrompt(ideas []domain.SelectedIdea) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert startup investor and analyst. Rank these %d startup ideas and provide comprehensive analysis:\n\n", len(ideas))

	for i, idea := range ideas {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, idea.SourceID, idea.Title)
		if idea.Body != "" {
			fmt.Fprintf(&b, "   Description: %s\n", truncateRunes(idea.Body, rankingBodyLimit))
		}
		fmt.Fprintf(&b, "   Community Score: %d\n", idea.Score)
		fmt.Fprintf(&b, "   Selection Reasoning: %s\n\n", idea.Reasoning)
	}

	b.WriteString(`Provide detailed analysis in JSON format:
{
  "rankings": [
    {
      "rank": 1,
      "title": "<title>",
      "subreddit": "<source>",
      "validation_score": <1-10>,
      "market_potential": "<analysis>",
      "feasibility": "<analysis>",
      "competitive_advantage": "<analysis>",
      "future_outlook": "<analysis>",
      "key_risks": "<risks>",
      "recommendation": "<invest/pass/watch>"
    }
  ],
  "overall_analysis": "<summary of all ideas and market trends>"
}`)

	return b.String()
}
