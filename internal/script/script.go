// Package script turns ranked stories into a finalized, speech-ready
// narration: draft generation, bracket-section parsing, iterative
// critique/revise refinement and final cleanup.
package script

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/veritaslens/newscast/internal/logger"
	"github.com/veritaslens/newscast/internal/news"
	"github.com/veritaslens/newscast/internal/oracle"
	"github.com/veritaslens/newscast/internal/sanitize"
)

// Metadata describes one generated narration.
type Metadata struct {
	BrandName            string    `json:"brand_name"`
	GeneratedAt          time.Time `json:"generated_at"`
	RunID                string    `json:"run_id,omitempty"`
	LLMsUsed             []string  `json:"llms_used"`
	RefinementIterations int       `json:"refinement_iterations"`
}

// FinalScript is the immutable per-run narration snapshot.
type FinalScript struct {
	Metadata Metadata          `json:"metadata"`
	Sections map[string]string `json:"sections"`
}

// IterationSink receives per-iteration refinement dumps for debugging.
type IterationSink interface {
	SaveIteration(section string, iteration int, content string)
}

// Generator builds and refines narration scripts. Drafter produces the
// bracketed draft and revisions; Critic produces critiques.
type Generator struct {
	Drafter       oracle.Oracle
	Critic        oracle.Oracle
	BrandName     string
	RunID         string
	MaxIterations int
	Snapshots     IterationSink
}

// Generate runs the full script stage: draft, split, refine each
// section independently, sanitize, assemble.
func (g *Generator) Generate(ctx context.Context, topStories []news.Item) (*FinalScript, error) {
	if len(topStories) == 0 {
		return nil, fmt.Errorf("no top stories provided")
	}

	draft := oracle.Text(ctx, g.Drafter, BuildDraftPrompt(topStories))
	sections := SplitSections(draft)
	if len(sections) == 0 {
		return nil, fmt.Errorf("no bracketed sections found in draft")
	}
	logger.Info("Parsed draft sections", "count", len(sections))

	refiner := &Refiner{
		Critic:        g.Critic,
		Reviser:       g.Drafter,
		MaxIterations: g.MaxIterations,
		Snapshots:     g.Snapshots,
	}

	cleaned := make(map[string]string, len(sections))
	totalIterations := 0
	for key, text := range sections {
		refined, iterations := refiner.RefineSection(ctx, key, text)
		totalIterations += iterations
		cleaned[key] = sanitize.Clean(refined)
		logger.Info("Section refined", "section", key, "iterations", iterations)
	}

	return &FinalScript{
		Metadata: Metadata{
			BrandName:            g.BrandName,
			GeneratedAt:          time.Now().UTC(),
			RunID:                g.RunID,
			LLMsUsed:             []string{"DeepSeek-r1", "Gemini Flash"},
			RefinementIterations: totalIterations,
		},
		Sections: cleaned,
	}, nil
}

// BuildDraftPrompt asks the drafting oracle for a bracketed broadcast
// script over the selected stories.
func BuildDraftPrompt(stories []news.Item) string {
	var details strings.Builder
	for _, s := range stories {
		fmt.Fprintf(&details, "- %s: %s\n", s.Title, s.Description)
	}

	return fmt.Sprintf(`You are a professional news scriptwriter. Generate a TV news broadcast script.

**STRICT RULES:**
1. Use ONLY these sections: [HOOK], [HEADLINES], [MAIN_STORY_1], [MAIN_STORY_2], [MAIN_STORY_3], [OUTRO]
2. Output ONLY the spoken narration text
3. NEVER include:
   - AI reasoning/thinking (no <think>/</think>)
   - Visual directions (e.g., "show map")
   - Production notes
   - Revision comments
4. Use concise, spoken English with proper punctuation
5. Maintain neutral tone with clear subject-verb-object structure

**TOP STORIES:**
%s
**EXAMPLE FORMAT:**
[HOOK]
Breaking news tonight: [Concise attention-grabbing lead]

[HEADLINES]
- First headline summary
- Second headline summary
- Third headline summary

[MAIN_STORY_1]
Detailed report with key facts...

[OUTRO]
That's all for tonight. For updates visit...

Generate the news script:`, details.String())
}

var sectionHeaderPattern = regexp.MustCompile(`^\[([^\[\]]+)\]$`)

// SplitSections parses a bracket-delimited draft into named sections.
// Chain-of-thought markup is stripped first so a leaked reasoning
// block can never masquerade as narration. A line that is exactly one
// bracketed label opens a section; following lines accumulate into it,
// joined with single spaces. Text before the first label is discarded.
// Keys are lowercased with spaces turned into underscores and are not
// validated against any expected set here.
func SplitSections(raw string) map[string]string {
	raw = sanitize.StripThink(raw)

	sections := make(map[string]string)
	currentKey := ""
	var buffer []string

	flush := func() {
		if currentKey != "" {
			sections[currentKey] = strings.TrimSpace(strings.Join(buffer, " "))
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if m := sectionHeaderPattern.FindStringSubmatch(line); m != nil {
			flush()
			currentKey = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(m[1])), " ", "_")
			buffer = buffer[:0]
			continue
		}
		if currentKey != "" && line != "" {
			buffer = append(buffer, line)
		}
	}
	flush()

	return sections
}
