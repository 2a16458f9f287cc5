package normalize

import (
	"regexp"
	"strings"
)

var spacePattern = regexp.MustCompile(`\s+`)

// CleanDescription trims and collapses whitespace in free-text cells.
func CleanDescription(raw string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(raw, " "))
}
