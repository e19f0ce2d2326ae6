package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"SubSignal/internal/domain"
	"SubSignal/internal/ports"
)

// Platform size limits, enforced locally before any send; the sink is never
// relied on to reject or re-chunk oversized payloads.
const (
	maxEmbedTitle       = 256
	maxFieldValue       = 1024
	maxEmbedDescription = 4096
	maxPublishedRanks   = 4
)

const summaryColor = 0x5865F2

var (
	rankMedals = [maxPublishedRanks]string{"\U0001F947", "\U0001F948", "\U0001F949", "4️⃣"}
	rankColors = [maxPublishedRanks]int{0xFFD700, 0xC0C0C0, 0xCD7F32, 0x808080}
)

// Publisher converts the ranking report into bounded embed messages and
// delivers them best-effort: per-message failures are logged and skipped,
// never propagated.
type Publisher struct {
	sink   ports.Sink
	pace   ports.Pacer
	logger *slog.Logger
	now    func() time.Time
}

// NewPublisher wires the webhook sink; a nil sink turns Publish into a
// logged no-op.
func NewPublisher(sink ports.Sink, pace ports.Pacer, logger *slog.Logger) *Publisher {
	return &Publisher{
		sink:   sink,
		pace:   pace,
		logger: logger,
		now:    time.Now,
	}
}

// Publish sends the summary message first, then one message per ranked idea
// in rank order (first four ranks), pacing between sends. The original
// selections are joined by title to recover source URLs and raw scores.
func (p *Publisher) Publish(ctx context.Context, analysis domain.AnalysisResult, ideas []domain.SelectedIdea) {
	if p.sink == nil {
		p.logger.Info("no sink configured, skipping publication")
		return
	}

	if err := p.pace.Wait(ctx); err != nil {
		p.logger.Warn("publish pacing interrupted", "error", err)
		return
	}
	if err := p.sink.Send(ctx, []domain.Embed{p.summaryEmbed(analysis)}); err != nil {
		p.logger.Warn("failed to send summary message", "error", err)
	} else {
		p.logger.Info("summary message sent")
	}

	entries := make([]domain.RankingEntry, len(analysis.Rankings))
	copy(entries, analysis.Rankings)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })
	if len(entries) > maxPublishedRanks {
		entries = entries[:maxPublishedRanks]
	}

	for _, entry := range entries {
		if err := p.pace.Wait(ctx); err != nil {
			p.logger.Warn("publish pacing interrupted", "error", err)
			return
		}

		if err := p.sink.Send(ctx, []domain.Embed{rankEmbed(entry, ideas)}); err != nil {
			p.logger.Warn("failed to send ranked idea", "rank", entry.Rank, "error", err)
			continue
		}
		p.logger.Info("ranked idea sent", "rank", entry.Rank)
	}
}

func (p *Publisher) summaryEmbed(analysis domain.AnalysisResult) domain.Embed {
	description := analysis.OverallAnalysis
	if description == "" {
		description = "AI-powered analysis of top community startup ideas"
	}

	return domain.Embed{
		Title:       "SubSignal: Top Startup Ideas Analysis",
		Description: truncateWithMarker(description, maxEmbedDescription),
		Color:       summaryColor,
		Timestamp:   p.now().UTC().Format(time.RFC3339),
		Footer:      &domain.EmbedFooter{Text: "Powered by Groq + Gemini"},
	}
}

func rankEmbed(entry domain.RankingEntry, ideas []domain.SelectedIdea) domain.Embed {
	recommendation := entry.Recommendation
	if recommendation == "" {
		recommendation = domain.RecommendWatch
	}

	fields := []domain.EmbedField{
		{Name: "Subreddit", Value: "r/" + sourceLabel(entry.SourceID), Inline: true},
		{Name: "Validation", Value: fmt.Sprintf("%d/10", entry.ValidationScore), Inline: true},
		{Name: "Status", Value: strings.ToUpper(recommendation), Inline: true},
	}

	embed := domain.Embed{
		Title: truncateWithMarker(rankTitle(entry), maxEmbedTitle),
		Color: rankColor(entry.Rank),
	}

	// Title is the join key back to the selection; first match wins.
	if idea, ok := matchIdea(ideas, entry.Title); ok && idea.URL != "" {
		embed.URL = idea.URL
		fields = append(fields, domain.EmbedField{
			Name:   "Community Score",
			Value:  strconv.Itoa(idea.Score),
			Inline: true,
		})
	}

	longFields := []struct {
		name  string
		value string
	}{
		{"Market Potential", entry.MarketPotential},
		{"Feasibility", entry.Feasibility},
		{"Future Outlook", entry.FutureOutlook},
		{"Key Risks", entry.KeyRisks},
	}
	for _, f := range longFields {
		if f.value == "" {
			continue
		}
		fields = append(fields, domain.EmbedField{
			Name:  f.name,
			Value: truncateWithMarker(f.value, maxFieldValue),
		})
	}

	embed.Fields = fields
	return embed
}

func rankTitle(entry domain.RankingEntry) string {
	if entry.Rank >= 1 && entry.Rank <= maxPublishedRanks {
		return fmt.Sprintf("%s Rank %d: %s", rankMedals[entry.Rank-1], entry.Rank, entry.Title)
	}
	return fmt.Sprintf("Rank %d: %s", entry.Rank, entry.Title)
}

func rankColor(rank int) int {
	if rank >= 1 && rank <= maxPublishedRanks {
		return rankColors[rank-1]
	}
	return rankColors[maxPublishedRanks-1]
}

// matchIdea finds the first selection whose title equals the ranking entry's
// title. Duplicates are not de-duplicated.
func matchIdea(ideas []domain.SelectedIdea, title string) (domain.SelectedIdea, bool) {
	for _, idea := range ideas {
		if idea.Title == title {
			return idea, true
		}
	}
	return domain.SelectedIdea{}, false
}

func sourceLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}

// truncateWithMarker bounds text to limit characters, appending "..." when
// cut. Empty or N/A values become a readable placeholder.
func truncateWithMarker(text string, limit int) string {
	if strings.TrimSpace(text) == "" || text == "N/A" {
		return "Not available"
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}
