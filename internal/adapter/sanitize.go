package adapter

import (
	"regexp"
	"strings"
)

// specialTokens matches model control tokens such as <|begin_of_sentence|>
// and any other angle-bracketed fragment.
var specialTokens = regexp.MustCompile(`<[^>]*?>`)

// StripSpecialTokens removes every <...> fragment from text.
func StripSpecialTokens(text string) string {
	return specialTokens.ReplaceAllString(text, "")
}

// SanitizeASCII keeps printable ASCII and newlines, collapses runs of
// whitespace inside each line and drops empty lines.
func SanitizeASCII(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || (r >= 32 && r <= 126) {
			b.WriteRune(r)
		}
	}

	lines := strings.Split(b.String(), "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
