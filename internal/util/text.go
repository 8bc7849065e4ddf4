package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	reSpaces = regexp.MustCompile(`\s+`)

	titleCaser = cases.Title(language.Spanish)
)

func CollapseSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// TitleCase renders an uppercased banking token for display: "JUAN" -> "Juan",
// "MERCADONA VALENCIA" -> "Mercadona Valencia".
func TitleCase(input string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(input)))
}

// IsAlphabetic reports whether the token consists only of letters, with at
// least one of them. Accented Spanish letters count.
func IsAlphabetic(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !isLetter(r) {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	}
	switch r {
	case 'Á', 'É', 'Í', 'Ó', 'Ú', 'Ü', 'Ñ', 'á', 'é', 'í', 'ó', 'ú', 'ü', 'ñ':
		return true
	}
	return false
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func StringPtr(v string) *string { return &v }
