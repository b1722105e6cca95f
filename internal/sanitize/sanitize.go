// Package sanitize turns arbitrary oracle prose into speech-safe text.
// Every transform is pure and total: malformed input degrades toward
// the empty string, it never fails.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	thinkBlockPattern = regexp.MustCompile(`(?is)<\s*think\s*>.*?<\s*/\s*think\s*>`)
	thinkTagPattern   = regexp.MustCompile(`(?is)\[\s*/?\s*think[^\]]*\]|<\s*/?\s*think\s*>`)

	asteriskSpanPattern  = regexp.MustCompile(`\*+[^*\n]*\*+`)
	asteriskStartPattern = regexp.MustCompile(`(?m)^\s*\*+.*$`)
	asteriskEndPattern   = regexp.MustCompile(`(?m)^.*\*+\s*$`)

	bracketAsidePattern = regexp.MustCompile(`\[[^\]]*\]`)
	parenAsidePattern   = regexp.MustCompile(`\([^)]*\)`)

	disallowedPattern = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?'’]`)
	spaceRunPattern   = regexp.MustCompile(`\s+`)
)

// StripThink removes chain-of-thought blocks leaked by reasoning
// models: <think>…</think> spans and stray [think]/[/think] markers in
// any casing.
func StripThink(s string) string {
	s = thinkBlockPattern.ReplaceAllString(s, "")
	s = thinkTagPattern.ReplaceAllString(s, "")
	return s
}

// Clean runs the full speech-safety pipeline in fixed order: strip
// chain-of-thought, drop emphasis spans and bracketed or parenthetical
// asides, remove characters outside the spoken allow-list, collapse
// whitespace, then normalize sentence casing and termination.
func Clean(script string) string {
	script = StripThink(script)

	script = asteriskSpanPattern.ReplaceAllString(script, "")
	script = asteriskStartPattern.ReplaceAllString(script, "")
	script = asteriskEndPattern.ReplaceAllString(script, "")

	script = bracketAsidePattern.ReplaceAllString(script, "")
	script = parenAsidePattern.ReplaceAllString(script, "")

	script = disallowedPattern.ReplaceAllString(script, "")
	script = strings.TrimSpace(spaceRunPattern.ReplaceAllString(script, " "))
	if script == "" {
		return ""
	}

	sentences := splitSentences(script)
	cleaned := make([]string, 0, len(sentences))
	for _, sent := range sentences {
		sent = strings.TrimSpace(sent)
		if sent == "" {
			continue
		}
		runes := []rune(sent)
		runes[0] = unicode.ToUpper(runes[0])
		sent = string(runes)
		if !strings.HasSuffix(sent, ".") && !strings.HasSuffix(sent, "!") && !strings.HasSuffix(sent, "?") {
			sent += "."
		}
		cleaned = append(cleaned, sent)
	}

	return strings.Join(cleaned, " ")
}

// splitSentences cuts after terminal punctuation followed by a space.
func splitSentences(s string) []string {
	var sentences []string
	start := 0
	runes := []rune(s)
	for i := 0; i < len(runes)-1; i++ {
		if (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') && runes[i+1] == ' ' {
			sentences = append(sentences, string(runes[start:i+1]))
			start = i + 2
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}
