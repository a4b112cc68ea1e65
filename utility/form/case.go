package form

import (
	"strings"
	"unicode"
)

// CaseParser splits an identifier into lower-cased segments on case changes,
// underscores and any other non-alphanumeric rune. Upper-case runs stay
// together, so "HTMLBlock" yields "html" and "block".
func CaseParser(s string) []string {
	if s == "" {
		return []string{}
	}

	var segments []string
	var current strings.Builder
	runes := []rune(s)

	flush := func() {
		if current.Len() > 0 {
			segments = append(segments, current.String())
			current.Reset()
		}
	}

	for i, r := range runes {
		// * split on separators and skip them
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		// * split before an upper-case rune that starts a new word
		if unicode.IsUpper(r) && i > 0 {
			previous := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(previous) || unicode.IsDigit(previous) || (unicode.IsUpper(previous) && nextLower) {
				flush()
			}
		}

		current.WriteRune(unicode.ToLower(r))
	}

	// * add last segment
	flush()

	return segments
}

// ToSnakeCase converts a string to snake case
func ToSnakeCase(s string) string {
	segments := CaseParser(s)
	if len(segments) == 0 {
		return ""
	}

	return strings.Join(segments, "_")
}

// IsSnakeCase reports whether s only holds lower-case ASCII letters, digits and underscores.
func IsSnakeCase(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
