package domain

// Post is one raw candidate fetched from a community source before any model
// judgment is applied. Body is plain text with HTML stripped and is bounded
// by the source adapter. Score and CommentCount are zero when the transport
// cannot supply them.
type Post struct {
	SourceID     string `json:"source_id"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	URL          string `json:"url"`
	Score        int    `json:"score"`
	CommentCount int    `json:"num_comments"`
	CreatedAt    int64  `json:"created_utc"`
}

// Snapshot maps every configured source to its surviving candidates in feed
// order. A source that failed or produced nothing maps to an empty slice,
// never to an absent key.
type Snapshot map[string][]Post

// SelectedIdea is the per-source winner produced by the selection stage.
// Reasoning is always populated: either the model's stated rationale or one
// of the fixed fallback strings naming the failure mode.
type SelectedIdea struct {
	SourceID  string `json:"source_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	URL       string `json:"url"`
	Score     int    `json:"score"`
	Reasoning string `json:"selection_reasoning"`
}

// Recommendation values emitted by the ranking stage.
const (
	RecommendInvest = "invest"
	RecommendPass   = "pass"
	RecommendWatch  = "watch"
)

// RankingEntry scores one selected idea within the cross-source report.
// Rank values form a permutation of 1..N over the ranked ideas.
type RankingEntry struct {
	Rank                 int    `json:"rank"`
	Title                string `json:"title"`
	SourceID             string `json:"subreddit"`
	ValidationScore      int    `json:"validation_score"`
	MarketPotential      string `json:"market_potential"`
	Feasibility          string `json:"feasibility,omitempty"`
	CompetitiveAdvantage string `json:"competitive_advantage,omitempty"`
	FutureOutlook        string `json:"future_outlook,omitempty"`
	KeyRisks             string `json:"key_risks,omitempty"`
	Recommendation       string `json:"recommendation"`
}

// AnalysisResult is the root artifact of the ranking stage.
type AnalysisResult struct {
	Rankings        []RankingEntry `json:"rankings"`
	OverallAnalysis string         `json:"overall_analysis"`
}
