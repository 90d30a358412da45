// Package summarize turns article text into a handful of bullet points using
// sentence-splitting heuristics. There is no model behind this: it keeps the
// leading sentences of the body, which for news copy is usually the lede.
package summarize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minSegmentChars filters out fragments (datelines, bylines, "Read more")
// that survive sentence splitting.
const minSegmentChars = 30

var sentenceEnders = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true,
}

// Bullets splits body into sentences and returns up to maxBullets of them in
// original order, each truncated to maxChars runes. A non-empty body always
// yields at least one bullet: when no sentence survives filtering, the first
// maxChars runes of the collapsed text are used instead.
func Bullets(body string, maxBullets, maxChars int) []string {
	collapsed := strings.Join(strings.Fields(body), " ")
	if collapsed == "" || maxBullets <= 0 {
		return nil
	}

	var bullets []string
	for _, seg := range splitSentences(collapsed) {
		if len(bullets) >= maxBullets {
			break
		}
		seg = strings.TrimSpace(seg)
		if utf8.RuneCountInString(seg) < minSegmentChars {
			continue
		}
		bullets = append(bullets, Truncate(seg, maxChars))
	}

	if len(bullets) == 0 {
		bullets = append(bullets, Truncate(collapsed, maxChars))
	}
	return bullets
}

// splitSentences cuts after Latin or full-width sentence-ending punctuation
// followed by whitespace.
func splitSentences(s string) []string {
	var segments []string
	runes := []rune(s)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !sentenceEnders[runes[i]] {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		segments = append(segments, string(runes[start:i+1]))
		start = i + 1
	}
	if start < len(runes) {
		segments = append(segments, string(runes[start:]))
	}
	return segments
}

// Truncate caps s at max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
