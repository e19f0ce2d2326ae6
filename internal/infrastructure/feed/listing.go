package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"SubSignal/internal/domain"
	"SubSignal/internal/scanner"
)

// ListingStrategy fetches candidates from the structured JSON listing API.
// Unlike the feed variant it supplies real engagement scores and comment
// counts.
type ListingStrategy struct {
	client  *http.Client
	baseURL string
	now     func() time.Time
}

var _ scanner.Strategy = (*ListingStrategy)(nil)

// NewListingStrategy wires an HTTP client; a nil client gets a 10-second
// timeout.
func NewListingStrategy(client *http.Client) *ListingStrategy {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ListingStrategy{
		client:  client,
		baseURL: defaultBaseURL,
		now:     time.Now,
	}
}

// Name identifies the strategy inside the registry.
func (s *ListingStrategy) Name() string {
	return "listing"
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Permalink   string  `json:"permalink"`
				URL         string  `json:"url"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch pulls the newest listing entries for one source, keeps those inside
// the recency window, and caps the result.
func (s *ListingStrategy) Fetch(ctx context.Context, source string) ([]domain.Post, error) {
	listingURL := fmt.Sprintf("%s/r/%s/new.json?limit=50&raw_json=1", s.baseURL, source)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", source, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing for %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing for %s returned %s", source, resp.Status)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode listing for %s: %w", source, err)
	}

	now := s.now()
	posts := make([]domain.Post, 0, maxPostsPerSource)
	for _, child := range listing.Data.Children {
		entry := child.Data
		created := int64(entry.CreatedUTC)
		if !withinWindow(now, created) {
			continue
		}

		link := entry.URL
		if entry.Permalink != "" {
			link = defaultBaseURL + entry.Permalink
		}

		posts = append(posts, domain.Post{
			SourceID:     source,
			Title:        entry.Title,
			Body:         truncateRunes(stripHTML(entry.Selftext), bodyLimit),
			URL:          link,
			Score:        entry.Score,
			CommentCount: entry.NumComments,
			CreatedAt:    created,
		})

		if len(posts) == maxPostsPerSource {
			break
		}
	}

	return posts, nil
}
