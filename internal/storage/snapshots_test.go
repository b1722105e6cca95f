package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/veritaslens/newscast/internal/news"
	"github.com/veritaslens/newscast/internal/script"
)

var testRunTime = time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)

func TestStore_SaveFilteredBatch(t *testing.T) {
	store := NewStore(t.TempDir())
	items := []news.Item{
		{Title: "A story", Link: "https://example.com/a", Fingerprint: "abc123"},
	}

	path, err := store.SaveFilteredBatch(items, testRunTime)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Base(path) != "all_news_20240301_123045.json" {
		t.Errorf("unexpected snapshot name: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
	var got []news.Item
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if len(got) != 1 || got[0].Title != "A story" || got[0].Fingerprint != "abc123" {
		t.Errorf("snapshot content wrong: %+v", got)
	}
}

func TestStore_SaveTopStoriesKeepsRank(t *testing.T) {
	store := NewStore(t.TempDir())
	items := []news.Item{
		{Title: "Ranked", Rank: &news.Rank{Importance: 8, Entertainment: 6, Combined: 72, Reasoning: "big"}},
	}

	path, err := store.SaveTopStories(items, testRunTime)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Base(path) != "top_stories_20240301_123045.json" {
		t.Errorf("unexpected snapshot name: %s", path)
	}

	data, _ := os.ReadFile(path)
	var got []news.Item
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if got[0].Rank == nil || got[0].Rank.Combined != 72 {
		t.Errorf("rank fields lost in snapshot: %+v", got[0].Rank)
	}
}

func TestStore_SaveFinalScript(t *testing.T) {
	store := NewStore(t.TempDir())
	fs := &script.FinalScript{
		Metadata: script.Metadata{BrandName: "Test Brand", GeneratedAt: testRunTime},
		Sections: map[string]string{"hook": "Good evening."},
	}

	path, err := store.SaveFinalScript(fs, testRunTime)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if filepath.Base(path) != "final_narration_20240301_123045.json" {
		t.Errorf("unexpected snapshot name: %s", path)
	}

	data, _ := os.ReadFile(path)
	var got script.FinalScript
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if got.Metadata.BrandName != "Test Brand" || got.Sections["hook"] != "Good evening." {
		t.Errorf("round-tripped script wrong: %+v", got)
	}
}

func TestStore_SaveIteration(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	store.SaveIteration("main_story_1", 2, "refined text")

	path := filepath.Join(dir, "temp_refine", "section_main_story_1", "iteration_2.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("iteration dump not written: %v", err)
	}
	if string(data) != "refined text" {
		t.Errorf("dump content = %q", data)
	}
}

func TestStore_SaveAudio(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	path := store.AudioPath(testRunTime)
	if filepath.Base(path) != "narration_20240301_123045.mp3" {
		t.Errorf("unexpected audio name: %s", path)
	}

	if err := store.SaveAudio(path, []byte{0xFF, 0xF3}); err != nil {
		t.Fatalf("save audio failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) != 2 {
		t.Errorf("audio not written correctly: %v, %d bytes", err, len(data))
	}
}
