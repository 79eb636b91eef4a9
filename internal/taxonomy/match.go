package taxonomy

import (
	"strings"
	"unicode"
)

// Normalize lowercases text and replaces punctuation noise with spaces,
// keeping the characters that carry meaning in code-related prose
// ("c++", "c#", "main.py", "one-line", "snake_case").
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	space := true
	for _, r := range strings.ToLower(text) {
		keep := unicode.IsLetter(r) || unicode.IsDigit(r) ||
			r == '+' || r == '#' || r == '.' || r == '_' || r == '-'
		if !keep {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}
	return strings.TrimSpace(b.String())
}

// Words splits normalized text into words, dropping tokens that are pure
// punctuation.
func Words(normalized string) []string {
	fields := strings.Fields(normalized)
	out := fields[:0]
	for _, f := range fields {
		if strings.IndexFunc(f, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			out = append(out, f)
		}
	}
	return out
}

// MatchIndex returns the offset of the first occurrence of trigger in text
// that sits on word boundaries, or -1. Boundaries are only enforced on the
// sides of the trigger that start or end with a word character, so ".py"
// matches "main.py" and "c++" matches "c++17".
func MatchIndex(text, trigger string) int {
	if trigger == "" {
		return -1
	}
	checkBefore := isWordChar(trigger[0])
	checkAfter := isWordChar(trigger[len(trigger)-1])

	offset := 0
	for offset <= len(text)-len(trigger) {
		idx := strings.Index(text[offset:], trigger)
		if idx == -1 {
			return -1
		}
		start := offset + idx
		end := start + len(trigger)

		ok := true
		if checkBefore && start > 0 && isWordChar(text[start-1]) {
			ok = false
		}
		if checkAfter && end < len(text) && isWordChar(text[end]) {
			ok = false
		}
		if ok {
			return start
		}
		offset = start + 1
	}
	return -1
}

// Contains reports whether trigger occurs in text on word boundaries.
func Contains(text, trigger string) bool {
	return MatchIndex(text, trigger) >= 0
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c >= 0x80
}
