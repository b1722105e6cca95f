package news

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns the stable content identity of an item: the
// sha-256 hex digest of its lower-cased, trimmed (title, description,
// link) triple joined by single spaces. Identical triples always hash
// identically; the hash never depends on published date or source.
func Fingerprint(title, description, link string) string {
	combo := normalizeField(title) + " " + normalizeField(description) + " " + normalizeField(link)
	sum := sha256.Sum256([]byte(combo))
	return hex.EncodeToString(sum[:])
}

func normalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
