package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)
var unsafeRunRegex = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// excel hard-limits sheet names to 31 characters
const maxSheetNameLen = 31

const maxFilenameLen = 180

func CollapseWhitespace(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// SafeFilename replaces every run of characters that is not safe in a
// filename with a single underscore and clamps the result to a length
// filesystems are comfortable with.
func SafeFilename(s string) string {
	s = unsafeRunRegex.ReplaceAllString(strings.TrimSpace(s), "_")
	if len(s) > maxFilenameLen {
		s = s[:maxFilenameLen]
	}
	return s
}

// SheetName sanitizes a category key into a legal xlsx sheet name.
// Besides the length cap, excel forbids []:*?/\ and leading/trailing
// apostrophes.
func SheetName(s string) string {
	s = strings.Trim(s, " \n\t'")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, s)
	if s == "" {
		s = "sheet"
	}
	if len(s) > maxSheetNameLen {
		s = s[:maxSheetNameLen]
	}
	return s
}
