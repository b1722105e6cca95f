package news

import "testing"

func TestFingerprint_DeterministicAfterNormalization(t *testing.T) {
	a := Fingerprint("Breaking News", "Something happened.", "https://example.com/a")
	b := Fingerprint("  breaking news ", "Something happened.", "HTTPS://EXAMPLE.COM/A")
	if a != b {
		t.Errorf("expected identical fingerprints for normalized-equal triples, got %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected sha-256 hex digest of length 64, got %d", len(a))
	}
}

func TestFingerprint_DiffersPerField(t *testing.T) {
	base := Fingerprint("title", "desc", "link")

	cases := []struct {
		name              string
		title, desc, link string
	}{
		{"title changed", "title2", "desc", "link"},
		{"description changed", "title", "desc2", "link"},
		{"link changed", "title", "desc", "link2"},
	}
	for _, tc := range cases {
		if got := Fingerprint(tc.title, tc.desc, tc.link); got == base {
			t.Errorf("%s: fingerprint did not change", tc.name)
		}
	}
}
