// Package storage persists per-run snapshots as plain JSON files.
// Old snapshots are never deleted here; every run appends its own.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/veritaslens/newscast/internal/logger"
	"github.com/veritaslens/newscast/internal/metrics"
	"github.com/veritaslens/newscast/internal/news"
	"github.com/veritaslens/newscast/internal/script"
)

const timestampLayout = "20060102_150405"

// Store writes run artifacts under one data directory.
type Store struct {
	dataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// SaveFilteredBatch snapshots the post-filter batch.
func (s *Store) SaveFilteredBatch(items []news.Item, ts time.Time) (string, error) {
	path := filepath.Join(s.dataDir, "news", fmt.Sprintf("all_news_%s.json", ts.Format(timestampLayout)))
	return path, s.writeJSON(path, items)
}

// SaveTopStories snapshots the selected items including rank fields.
func (s *Store) SaveTopStories(items []news.Item, ts time.Time) (string, error) {
	path := filepath.Join(s.dataDir, "top_news", fmt.Sprintf("top_stories_%s.json", ts.Format(timestampLayout)))
	return path, s.writeJSON(path, items)
}

// SaveFinalScript snapshots the finished narration.
func (s *Store) SaveFinalScript(fs *script.FinalScript, ts time.Time) (string, error) {
	path := filepath.Join(s.dataDir, "narration", fmt.Sprintf("final_narration_%s.json", ts.Format(timestampLayout)))
	return path, s.writeJSON(path, fs)
}

// AudioPath names the narration audio file for a run.
func (s *Store) AudioPath(ts time.Time) string {
	return filepath.Join(s.dataDir, "audio", fmt.Sprintf("narration_%s.mp3", ts.Format(timestampLayout)))
}

// SaveIteration dumps one accepted refinement iteration for debugging.
// Best effort: a failed dump is logged, never propagated.
func (s *Store) SaveIteration(section string, iteration int, content string) {
	dir := filepath.Join(s.dataDir, "temp_refine", "section_"+section)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("Failed to create refine dump directory", "section", section, "error", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("iteration_%d.txt", iteration))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		logger.Error("Failed to save refine iteration", "section", section, "error", err)
	}
}

// SaveAudio writes synthesized narration audio.
func (s *Store) SaveAudio(path string, audio []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}
	if err := os.WriteFile(path, audio, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	metrics.Global.IncrementSnapshotsWritten()
	logger.Info("Saved snapshot", "path", path)
	return nil
}
