package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// pageSeparator marks page boundaries in concatenated output.
const pageSeparator = "\n\n"

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

// Normalize strips control characters and collapses noisy whitespace.
// Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = stripControl(s)
	s = reMultiSpace.ReplaceAllString(s, " ")
	// trim trailing spaces on lines before collapsing blank runs, so a
	// space-only line counts as blank
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// stripControl drops control runes, keeping newlines and turning tabs into
// spaces so words separated by tabs stay separated.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// meaningfulChars counts non-whitespace runes; the sparsity signal for
// deciding whether the text layer was sufficient.
func meaningfulChars(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
