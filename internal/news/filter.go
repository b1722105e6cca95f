package news

import (
	"time"

	"github.com/veritaslens/newscast/internal/logger"
)

// Ledger is the fingerprint membership the filter consults. Satisfied
// by *ledger.Ledger.
type Ledger interface {
	Contains(fingerprint string) bool
	Add(fingerprint string)
}

// FilterStats counts what Filter dropped and why.
type FilterStats struct {
	Admitted    int `json:"admitted"`
	Old         int `json:"old"`
	Duplicates  int `json:"duplicates"`
	MissingDate int `json:"missing_date"`
}

// Filter removes stale and already-seen items from a batch.
//
// Items pass in input order and survivors keep it. An item with a zero
// published time counts as missing-date; one published strictly before
// now-maxAge counts as old; one whose fingerprint is already in the
// ledger counts as duplicate. Admitted items get their fingerprint set
// and recorded in the ledger, so filtering the same batch twice against
// a persistent ledger yields nothing the second time.
func Filter(items []Item, led Ledger, maxAge time.Duration, now time.Time) ([]Item, FilterStats) {
	cutoff := now.UTC().Add(-maxAge)
	var stats FilterStats
	filtered := make([]Item, 0, len(items))

	for _, it := range items {
		if it.Published.IsZero() {
			stats.MissingDate++
			continue
		}
		if it.Published.Before(cutoff) {
			stats.Old++
			continue
		}
		fp := Fingerprint(it.Title, it.Description, it.Link)
		if led.Contains(fp) {
			stats.Duplicates++
			continue
		}
		led.Add(fp)
		it.Fingerprint = fp
		filtered = append(filtered, it)
	}

	stats.Admitted = len(filtered)
	logger.Info("Filtered news",
		"admitted", stats.Admitted,
		"old", stats.Old,
		"duplicates", stats.Duplicates,
		"missing_date", stats.MissingDate)
	return filtered, stats
}
