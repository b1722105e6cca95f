package rss

import (
	"os"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/veritaslens/newscast/internal/logger"
	"github.com/veritaslens/newscast/internal/news"
)

// FeedsConfig is YAML config structure
// feeds:
//   - https://...
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads RSS feeds list from YAML file
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Feeds, nil
}

// FetchAll downloads and parses all feeds and returns raw records in
// stable order: feeds in config order, entries in feed order. A feed
// that fails to parse is logged and skipped, never fatal.
func FetchAll(urls []string) []news.RawRecord {
	parser := gofeed.NewParser()
	var records []news.RawRecord
	successCount := 0

	for _, url := range urls {
		feed, err := parser.ParseURL(url)
		if err != nil {
			logger.Error("Error parsing RSS feed", "url", url, "error", err)
			continue
		}

		for _, item := range feed.Items {
			published := item.PublishedParsed
			if published == nil {
				published = item.UpdatedParsed
			}
			publishedAt := item.Published
			if publishedAt == "" {
				publishedAt = item.Updated
			}

			records = append(records, news.RawRecord{
				Title:           item.Title,
				Description:     item.Description,
				Link:            item.Link,
				PublishedAt:     publishedAt,
				PublishedParsed: published,
				Source:          url,
			})
		}
		successCount++
		logger.Info("Loaded news from feed", "count", len(feed.Items), "url", url)
	}

	logger.Info("Processed RSS feeds", "ok", successCount, "total", len(urls))
	return records
}
