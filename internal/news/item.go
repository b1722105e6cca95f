package news

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Item is the canonical news item shape every source record is
// normalized into before filtering.
type Item struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Published   time.Time `json:"published"`
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Rank        *Rank     `json:"ranking,omitempty"`
}

// Rank holds the ranking oracle's scores for one item.
type Rank struct {
	Importance    float64 `json:"importance"`
	Entertainment float64 `json:"entertainment"`
	Combined      float64 `json:"combined"`
	Reasoning     string  `json:"reasoning"`
}

// RawRecord is a heterogeneous source record before normalization.
// PublishedAt carries whatever date text the source provided;
// PublishedParsed wins when the connector already decoded it.
type RawRecord struct {
	Title           string
	Description     string
	Link            string
	PublishedAt     string
	PublishedParsed *time.Time
	Source          string
}

// Normalize converts raw source records into canonical items.
// Descriptions are stripped of HTML markup since feed entries often
// carry embedded tags. Date parsing failures are left to the filter,
// which counts them; Published stays zero when nothing parses.
func Normalize(records []RawRecord) []Item {
	items := make([]Item, 0, len(records))
	for _, r := range records {
		published := time.Time{}
		if r.PublishedParsed != nil {
			published = r.PublishedParsed.UTC()
		} else if t, ok := ParseDatetime(r.PublishedAt); ok {
			published = t
		}

		items = append(items, Item{
			Title:       strings.TrimSpace(r.Title),
			Description: stripHTML(r.Description),
			Link:        strings.TrimSpace(r.Link),
			Published:   published,
			Source:      r.Source,
		})
	}
	return items
}

// stripHTML flattens markup in feed descriptions to plain text.
func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "<") {
		return collapseSpaces(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpaces(s)
	}
	return collapseSpaces(doc.Text())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
