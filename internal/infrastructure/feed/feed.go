package feed

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// recencyWindow keeps only posts created within the last day. Posts with
	// an unusable timestamp (zero) always fail the filter.
	recencyWindow = 24 * time.Hour

	// bodyLimit bounds post bodies before they ever reach a prompt.
	bodyLimit = 500

	// maxPostsPerSource caps the candidate group regardless of how many posts
	// survive the recency filter.
	maxPostsPerSource = 5

	userAgent = "SubSignalBot/2.0 (Startup Idea Analyzer)"
)

// withinWindow reports whether a post created at the given unix timestamp
// falls inside the recency window relative to now.
func withinWindow(now time.Time, createdAt int64) bool {
	if createdAt <= 0 {
		return false
	}
	return now.Unix()-createdAt <= int64(recencyWindow/time.Second)
}

// stripHTML reduces an HTML fragment to its plain text content.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

// truncateRunes cuts s to at most limit characters without a marker; the
// budget exists to bound prompt size, not for display.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
