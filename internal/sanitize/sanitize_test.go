package sanitize

import "testing"

func TestStripThink(t *testing.T) {
	in := "<think>\nplanning the answer\n</think>Good evening."
	if got := StripThink(in); got != "Good evening." {
		t.Errorf("got %q", got)
	}

	// Stray markers without a matching pair are removed too.
	in = "Good [think] evening </think> everyone."
	if got := StripThink(in); got != "Good  evening  everyone." {
		t.Errorf("got %q", got)
	}
}

func TestClean_RemovesEmphasisAndAsides(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"asterisk emphasis",
			"markets closed **sharply higher** today.",
			"Markets closed today.",
		},
		{
			"bracketed stage direction",
			"breaking news tonight [show map of region] from the capital.",
			"Breaking news tonight from the capital.",
		},
		{
			"parenthetical aside",
			"the bill passed (after a long debate) this morning.",
			"The bill passed this morning.",
		},
		{
			"disallowed symbols",
			"revenue grew 40% — analysts cheered; stock up $3.",
			"Revenue grew 40 analysts cheered stock up 3.",
		},
	}

	for _, tc := range cases {
		if got := Clean(tc.in); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClean_SentenceCasingAndTermination(t *testing.T) {
	in := "first sentence without casing. second one has no terminal punctuation"
	want := "First sentence without casing. Second one has no terminal punctuation."
	if got := Clean(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	in := "too   many\n\nspaces\there."
	want := "Too many spaces here."
	if got := Clean(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"markets closed **sharply higher** today. more news (soon) follows",
		"<think>x</think>plain text!",
		"already clean. Nothing to do here.",
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestClean_DegradesToEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "***", "[only a direction]", "(aside)", "<think>gone</think>"} {
		if got := Clean(in); got != "" {
			t.Errorf("Clean(%q) = %q, want empty", in, got)
		}
	}
}

func TestClean_KeepsSpokenPunctuation(t *testing.T) {
	in := "really? yes, it's true!"
	want := "Really? Yes, it's true!"
	if got := Clean(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
