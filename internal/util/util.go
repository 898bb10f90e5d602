// internal/util/util.go
package util

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nonSlugRunes = regexp.MustCompile(`[^a-z0-9_]+`)
	dashRuns     = regexp.MustCompile(`-+`)
)

// Slugify converts a string into a filename-safe slug. Colons (common in
// model tags such as "gpt-oss:20b") become underscores so that tag variants
// of the same model stay distinguishable on disk.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "_")
	s = nonSlugRunes.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	return s
}

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// FirstLine returns the first non-empty line of text, trimmed.
func FirstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
