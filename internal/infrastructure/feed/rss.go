package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"SubSignal/internal/domain"
	"SubSignal/internal/scanner"
)

const defaultBaseURL = "https://www.reddit.com"

// FeedStrategy fetches candidates from a source's public syndication feed.
// Feeds carry no engagement data, so Score and CommentCount stay zero and
// ordering is feed order (most-recent-first) — a weaker guarantee than
// score-based ranking.
type FeedStrategy struct {
	parser  *gofeed.Parser
	baseURL string
	now     func() time.Time
}

var _ scanner.Strategy = (*FeedStrategy)(nil)

// NewFeedStrategy wires a gofeed parser; a nil client gets a 10-second timeout.
func NewFeedStrategy(client *http.Client) *FeedStrategy {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &FeedStrategy{
		parser:  parser,
		baseURL: defaultBaseURL,
		now:     time.Now,
	}
}

// Name identifies the strategy inside the registry.
func (s *FeedStrategy) Name() string {
	return "feed"
}

// Fetch pulls the newest feed entries for one source, keeps those inside the
// recency window, strips HTML from bodies, and caps the result.
func (s *FeedStrategy) Fetch(ctx context.Context, source string) ([]domain.Post, error) {
	feedURL := fmt.Sprintf("%s/r/%s/new/.rss?limit=50", s.baseURL, source)

	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed for %s: %w", source, err)
	}

	now := s.now()
	posts := make([]domain.Post, 0, maxPostsPerSource)
	for _, item := range parsed.Items {
		created := itemTimestamp(item)
		if !withinWindow(now, created) {
			continue
		}

		body := item.Content
		if body == "" {
			body = item.Description
		}

		posts = append(posts, domain.Post{
			SourceID:  source,
			Title:     item.Title,
			Body:      truncateRunes(stripHTML(body), bodyLimit),
			URL:       item.Link,
			CreatedAt: created,
		})

		if len(posts) == maxPostsPerSource {
			break
		}
	}

	return posts, nil
}

// itemTimestamp returns the entry's unix timestamp, or zero when the feed
// provides no usable time. Atom feeds often carry only an updated time.
func itemTimestamp(item *gofeed.Item) int64 {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.Unix()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.Unix()
	}
	return 0
}
