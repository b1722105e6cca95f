package script

import (
	"context"
	"strings"
	"testing"

	"github.com/veritaslens/newscast/internal/oracle"
)

// countingOracle wraps a fixed response and counts invocations.
type countingOracle struct {
	calls    int
	response func(prompt string) string
}

func (c *countingOracle) Generate(ctx context.Context, prompt string) (string, error) {
	c.calls++
	return c.response(prompt), nil
}

func TestRefineSection_StallsWhenRevisionIsIdentical(t *testing.T) {
	original := "The markets closed higher today."
	critic := &countingOracle{response: func(string) string { return "- be punchier" }}
	reviser := &countingOracle{response: func(string) string { return original }}

	r := &Refiner{Critic: critic, Reviser: reviser, MaxIterations: 5}
	got, iterations := r.RefineSection(context.Background(), "hook", original)

	if got != original {
		t.Errorf("stalled refinement must return the current text, got %q", got)
	}
	if iterations != 0 {
		t.Errorf("identical revision counts as 0 iterations, got %d", iterations)
	}
	if critic.calls != 1 || reviser.calls != 1 {
		t.Errorf("expected exactly one critique and one revision attempt, got %d/%d",
			critic.calls, reviser.calls)
	}
}

func TestRefineSection_CaseOnlyChangeIsNotImprovement(t *testing.T) {
	critic := &countingOracle{response: func(string) string { return "- capitalize" }}
	reviser := &countingOracle{response: func(string) string { return "THE MARKETS CLOSED HIGHER." }}

	r := &Refiner{Critic: critic, Reviser: reviser, MaxIterations: 5}
	got, iterations := r.RefineSection(context.Background(), "hook", "the markets closed higher.")

	if iterations != 0 {
		t.Errorf("case-only revision should stall, got %d iterations", iterations)
	}
	if got != "the markets closed higher." {
		t.Errorf("current text must be kept on stall, got %q", got)
	}
}

func TestRefineSection_RunsToIterationBudget(t *testing.T) {
	critic := &countingOracle{response: func(string) string { return "- keep going" }}
	reviser := &countingOracle{}
	reviser.response = func(prompt string) string {
		// Always distinct from the previous version.
		return strings.Repeat("better ", reviser.calls) + "text."
	}

	r := &Refiner{Critic: critic, Reviser: reviser, MaxIterations: 3}
	got, iterations := r.RefineSection(context.Background(), "main_story_1", "initial text.")

	if iterations != 3 {
		t.Errorf("expected the full iteration budget, got %d", iterations)
	}
	if critic.calls != 3 || reviser.calls != 3 {
		t.Errorf("expected 3 critique/revise round trips, got %d/%d", critic.calls, reviser.calls)
	}
	if got == "initial text." {
		t.Errorf("accepted revisions must replace the original")
	}
}

func TestRefineSection_EmptyCritiqueStopsBeforeRevision(t *testing.T) {
	critic := &countingOracle{response: func(string) string { return "   " }}
	reviser := &countingOracle{response: func(string) string { return "unused" }}

	r := &Refiner{Critic: critic, Reviser: reviser, MaxIterations: 3}
	got, iterations := r.RefineSection(context.Background(), "outro", "Goodnight.")

	if got != "Goodnight." || iterations != 0 {
		t.Errorf("expected unchanged text with 0 iterations, got %q / %d", got, iterations)
	}
	if reviser.calls != 0 {
		t.Errorf("reviser must not be called after an empty critique, got %d calls", reviser.calls)
	}
}

func TestRefineSection_BlankSectionSkipsOracles(t *testing.T) {
	critic := &countingOracle{response: func(string) string { return "unused" }}
	reviser := &countingOracle{response: func(string) string { return "unused" }}

	r := &Refiner{Critic: critic, Reviser: reviser, MaxIterations: 3}
	got, iterations := r.RefineSection(context.Background(), "headlines", "   \n  ")

	if iterations != 0 {
		t.Errorf("blank section should not iterate, got %d", iterations)
	}
	if got != "   \n  " {
		t.Errorf("blank section returned as-is, got %q", got)
	}
	if critic.calls != 0 || reviser.calls != 0 {
		t.Errorf("no oracle calls expected for a blank section, got %d/%d", critic.calls, reviser.calls)
	}
}

func TestRefineSection_OracleErrorDegradesToStall(t *testing.T) {
	critic := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", context.DeadlineExceeded
	})
	r := &Refiner{Critic: critic, Reviser: critic, MaxIterations: 3}

	got, iterations := r.RefineSection(context.Background(), "hook", "Original text.")
	if got != "Original text." || iterations != 0 {
		t.Errorf("oracle failure must leave the section untouched, got %q / %d", got, iterations)
	}
}

func TestRefineSection_RecordsAcceptedIterations(t *testing.T) {
	var recorded []int
	sink := iterationRecorder{record: func(section string, iteration int, content string) {
		if section != "hook" {
			t.Errorf("unexpected section %q", section)
		}
		recorded = append(recorded, iteration)
	}}

	critic := &countingOracle{response: func(string) string { return "- more" }}
	reviser := &countingOracle{}
	reviser.response = func(string) string {
		return strings.Repeat("x ", reviser.calls) + "done."
	}

	r := &Refiner{Critic: critic, Reviser: reviser, MaxIterations: 2, Snapshots: sink}
	r.RefineSection(context.Background(), "hook", "start.")

	if len(recorded) != 2 || recorded[0] != 1 || recorded[1] != 2 {
		t.Errorf("expected iterations 1 and 2 recorded, got %v", recorded)
	}
}

type iterationRecorder struct {
	record func(section string, iteration int, content string)
}

func (r iterationRecorder) SaveIteration(section string, iteration int, content string) {
	r.record(section, iteration, content)
}
