package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/veritaslens/newscast/internal/logger"
)

// Ledger is the persisted set of fingerprints already admitted in
// earlier runs. Entries keep insertion order so the retention trim is
// well-defined: when over capacity, only the most recently added cap
// entries survive.
type Ledger struct {
	filePath string
	cap      int
	order    []string
	seen     map[string]struct{}
}

// New creates a ledger backed by filePath, keeping at most cap entries
// across saves. cap <= 0 means unbounded.
func New(filePath string, cap int) *Ledger {
	return &Ledger{
		filePath: filePath,
		cap:      cap,
		seen:     make(map[string]struct{}),
	}
}

// Load reads the ledger file. A missing or corrupt file starts an
// empty ledger; that is a degraded state, not an error.
func (l *Ledger) Load() {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		logger.Info("No existing ledger found, starting fresh", "path", l.filePath)
		return
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("Ledger file corrupt, starting fresh", "path", l.filePath, "error", err)
		return
	}

	for _, fp := range entries {
		l.Add(fp)
	}
	logger.Info("Loaded fingerprint ledger", "entries", len(l.order))
}

// Save trims to capacity and writes the full ledger back as a JSON
// array. A failed save is fatal to the aggregation step: losing dedup
// state silently would corrupt every future run.
func (l *Ledger) Save() error {
	l.Trim()

	data, err := json.MarshalIndent(l.order, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	if dir := filepath.Dir(l.filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}
	if err := os.WriteFile(l.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}

	logger.Info("Saved fingerprint ledger", "entries", len(l.order))
	return nil
}

// Contains reports whether fp was already admitted.
func (l *Ledger) Contains(fp string) bool {
	_, ok := l.seen[fp]
	return ok
}

// Add records fp, keeping insertion order. Re-adding is a no-op.
func (l *Ledger) Add(fp string) {
	if fp == "" {
		return
	}
	if _, ok := l.seen[fp]; ok {
		return
	}
	l.seen[fp] = struct{}{}
	l.order = append(l.order, fp)
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Trim drops the oldest entries until at most cap remain.
func (l *Ledger) Trim() {
	if l.cap <= 0 || len(l.order) <= l.cap {
		return
	}
	dropped := l.order[:len(l.order)-l.cap]
	for _, fp := range dropped {
		delete(l.seen, fp)
	}
	l.order = append([]string(nil), l.order[len(dropped):]...)
	logger.Info("Trimmed ledger to retention cap", "cap", l.cap, "dropped", len(dropped))
}

// Entries returns the fingerprints in insertion order.
func (l *Ledger) Entries() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}
