package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/veritaslens/newscast/internal/logger"
	"github.com/veritaslens/newscast/internal/oracle"
)

// Refiner drives the per-section critique/revise loop. Each section is
// refined independently; the loop carries no state across sections.
type Refiner struct {
	Critic        oracle.Oracle
	Reviser       oracle.Oracle
	MaxIterations int
	Snapshots     IterationSink
}

// RefineSection iterates critique -> revise -> accept until the
// revision stops improving, an oracle goes silent, or the iteration
// budget runs out. It returns the latest accepted text and the number
// of accepted iterations. A stall never discards an improvement that
// was already accepted.
func (r *Refiner) RefineSection(ctx context.Context, key, text string) (string, int) {
	refined := text
	iteration := 0

	for iteration < r.MaxIterations {
		if strings.TrimSpace(refined) == "" {
			break
		}

		critique := oracle.Text(ctx, r.Critic, buildCritiquePrompt(refined))
		if strings.TrimSpace(critique) == "" {
			logger.Warn("Empty critique, stopping refinement", "section", key, "iteration", iteration+1)
			break
		}

		revised := oracle.Text(ctx, r.Reviser, buildRevisionPrompt(refined, critique))
		if strings.TrimSpace(revised) == "" {
			logger.Debug("Empty revision, keeping previous version", "section", key)
			break
		}

		if !improved(refined, revised) {
			logger.Debug("No improvement, stopping refinement", "section", key, "iteration", iteration+1)
			break
		}

		refined = revised
		iteration++
		if r.Snapshots != nil {
			r.Snapshots.SaveIteration(key, iteration, refined)
		}
		logger.Debug("Section improved", "section", key, "iteration", iteration)
	}

	return refined, iteration
}

// improved accepts a revision only when it is non-empty and its
// normalized text actually differs from the current section.
func improved(oldText, newText string) bool {
	oldNorm := strings.ToLower(strings.TrimSpace(oldText))
	newNorm := strings.ToLower(strings.TrimSpace(newText))
	return newNorm != "" && oldNorm != newNorm
}

func buildCritiquePrompt(sectionText string) string {
	return fmt.Sprintf("**Critique this news script section**:\n%s\n\n"+
		"Focus on viewer engagement, clarity, neutrality. Provide short bullet points of improvement.",
		sectionText)
}

func buildRevisionPrompt(sectionText, critique string) string {
	return fmt.Sprintf("**Revise this news script section**:\n%s\n\n"+
		"**Apply these critique points**:\n%s\n\n"+
		"Limit changes to clarity, engagement, neutrality. Do not add extraneous text or commentary.",
		sectionText, critique)
}
