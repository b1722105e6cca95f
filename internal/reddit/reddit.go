// Package reddit fetches hot submissions from public subreddit JSON
// listings. No authentication: the public listing endpoint is enough
// for a batch aggregator.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/veritaslens/newscast/internal/logger"
	"github.com/veritaslens/newscast/internal/news"
)

type Client struct {
	userAgent  string
	httpClient *http.Client
}

func NewClient(userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Selftext   string  `json:"selftext"`
				URL        string  `json:"url"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchHot returns the hot submissions of each subreddit as raw
// records, subreddits in input order. A failing subreddit is logged
// and skipped.
func (c *Client) FetchHot(ctx context.Context, subreddits []string, limit int) []news.RawRecord {
	var records []news.RawRecord

	for _, sub := range subreddits {
		posts, err := c.fetchSubreddit(ctx, sub, limit)
		if err != nil {
			logger.Error("Reddit fetch error", "subreddit", sub, "error", err)
			continue
		}
		records = append(records, posts...)
		logger.Info("Fetched posts from subreddit", "subreddit", sub, "count", len(posts))
	}

	return records
}

func (c *Client) fetchSubreddit(ctx context.Context, sub string, limit int) ([]news.RawRecord, error) {
	url := fmt.Sprintf("https://www.reddit.com/r/%s/hot.json?limit=%d", sub, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed listing
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	records := make([]news.RawRecord, 0, len(parsed.Data.Children))
	for _, child := range parsed.Data.Children {
		post := child.Data
		records = append(records, news.RawRecord{
			Title:       post.Title,
			Description: post.Selftext,
			Link:        post.URL,
			PublishedAt: strconv.FormatFloat(post.CreatedUTC, 'f', -1, 64),
			Source:      "reddit.com/r/" + sub,
		})
	}
	return records, nil
}
