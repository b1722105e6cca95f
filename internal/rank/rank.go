// Package rank scores a filtered batch with the ranking oracle and
// selects the top stories. The oracle's response is free text; the
// parser recovers whatever structure it can and never requires strict
// conformance.
package rank

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/veritaslens/newscast/internal/logger"
	"github.com/veritaslens/newscast/internal/news"
)

// NoRankingData marks scores assigned to items the oracle skipped.
const NoRankingData = "No ranking data"

var (
	storyPattern = regexp.MustCompile(`^STORY\s+(\d+)`)
	floatPattern = regexp.MustCompile(`[-+]?\d+(\.\d+)?`)
)

// BuildPrompt enumerates the batch with STORY n headers and asks for
// the scoring grammar ParseResponse understands.
func BuildPrompt(items []news.Item) string {
	var b strings.Builder

	fmt.Fprintf(&b, `We have %d news stories. For each story, assign:
- Importance score (0-10)
- Entertainment score (0-10)
- Combined rating (0-100)

Provide a short reasoning for each assignment.

Format EXACTLY:

STORY X
Importance: #
Entertainment: #
Combined: #
Reasoning: ...
STORY X
...

`, len(items))

	for i, it := range items {
		fmt.Fprintf(&b, "STORY %d:\nTitle: %s\nDescription: %s\n\n", i+1, it.Title, it.Description)
	}
	return b.String()
}

// ParseResponse scans the oracle's free-text ranking line by line and
// returns scores keyed by 1-based story index. A "STORY n" marker
// flushes the block in progress; recognized score keys take the first
// number after the colon, defaulting to zero when none parses;
// reasoning is captured verbatim. Garbage lines are skipped.
func ParseResponse(raw string) map[int]news.Rank {
	parsed := make(map[int]news.Rank)
	var current *news.Rank
	currentIdx := 0

	flush := func() {
		if current != nil && currentIdx > 0 {
			parsed[currentIdx] = *current
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if m := storyPattern.FindStringSubmatch(line); m != nil {
			flush()
			idx, err := strconv.Atoi(m[1])
			if err != nil || idx <= 0 {
				current, currentIdx = nil, 0
				continue
			}
			current, currentIdx = &news.Rank{}, idx
			continue
		}

		if current == nil || !strings.Contains(line, ":") {
			continue
		}

		kv := strings.SplitN(line, ":", 2)
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		value := strings.TrimSpace(kv[1])

		switch key {
		case "importance":
			current.Importance = extractFloat(value)
		case "entertainment":
			current.Entertainment = extractFloat(value)
		case "combined":
			current.Combined = extractFloat(value)
		case "reasoning":
			current.Reasoning = value
		}
	}
	flush()

	return parsed
}

// extractFloat pulls the first number out of free text, zero if none.
func extractFloat(s string) float64 {
	m := floatPattern.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// Assign attaches a score to every item in input order. Items the
// oracle skipped get a zero-valued placeholder so partial or garbled
// responses still produce a full ranking.
func Assign(items []news.Item, scores map[int]news.Rank) []news.Item {
	ranked := make([]news.Item, len(items))
	for i, it := range items {
		if r, ok := scores[i+1]; ok {
			it.Rank = &r
		} else {
			it.Rank = &news.Rank{Reasoning: NoRankingData}
		}
		ranked[i] = it
	}
	return ranked
}

// SelectTop sorts by combined score descending and truncates to count.
// The sort is stable, so tied items keep their original fetch order.
// When fewer items exist than requested the count shrinks silently.
func SelectTop(items []news.Item, count int) []news.Item {
	if count > len(items) {
		logger.Warn("Fewer stories available than requested",
			"available", len(items), "requested", count)
		count = len(items)
	}
	if count < 0 {
		count = 0
	}

	sorted := make([]news.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return combined(sorted[i]) > combined(sorted[j])
	})

	return sorted[:count]
}

func combined(it news.Item) float64 {
	if it.Rank == nil {
		return 0
	}
	return it.Rank.Combined
}
