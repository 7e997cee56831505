// Package glob implements the wildcard syntax used by the terminal filter
// field. A pattern supports only '*' (any run of characters) and backslash
// escapes; every other character matches itself. Matching is case-insensitive
// and unanchored, so a pattern without wildcards behaves as a substring search.
package glob

import (
	"regexp"
	"strings"
)

// Matcher tests titles against a compiled pattern.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// Translate converts pattern into regular expression source. Characters are
// consumed left to right: '*' becomes ".*", a backslash makes the following
// character literal, and a trailing lone backslash matches itself.
func Translate(pattern string) string {
	runes := []rune(pattern)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '*' {
			b.WriteString(".*")
			continue
		}
		if c == '\\' && i < len(runes)-1 {
			i++
			c = runes[i]
		}
		b.WriteString(regexp.QuoteMeta(string(c)))
	}
	return b.String()
}

// Compile lowercases pattern and builds a Matcher for it. The translated
// expression only contains quoted literals and ".*", so compilation cannot
// fail.
func Compile(pattern string) *Matcher {
	lowered := strings.ToLower(pattern)
	return &Matcher{
		pattern: lowered,
		re:      regexp.MustCompile(Translate(lowered)),
	}
}

// Pattern returns the lowercased source pattern.
func (m *Matcher) Pattern() string {
	if m == nil {
		return ""
	}
	return m.pattern
}

// Empty reports whether the matcher accepts everything.
func (m *Matcher) Empty() bool {
	return m == nil || m.pattern == ""
}

// Match reports whether title contains a match for the pattern.
func (m *Matcher) Match(title string) bool {
	if m.Empty() {
		return true
	}
	return m.re.MatchString(strings.ToLower(title))
}

// Match is a convenience wrapper around Compile(pattern).Match(title).
func Match(pattern, title string) bool {
	return Compile(pattern).Match(title)
}
