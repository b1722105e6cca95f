package news

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var epochPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// dateLayouts covers the formats feeds and forums actually emit.
// Tried in order; first match wins.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDatetime turns a published-at string into a UTC timestamp.
// Accepts a numeric epoch (seconds, fractional allowed) or any of the
// common date layouts. Returns false when nothing parses.
func ParseDatetime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if epochPattern.MatchString(s) {
		sec, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		whole := int64(sec)
		frac := sec - float64(whole)
		return time.Unix(whole, int64(frac*float64(time.Second))).UTC(), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
