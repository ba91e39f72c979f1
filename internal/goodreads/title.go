package goodreads

import (
	"regexp"
	"strings"
)

var (
	trailingParenRe   = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	trailingEditionRe = regexp.MustCompile(`(?i)\s*(\d+(?:st|nd|rd|th)\s+Edition|Revised Edition|Special Edition)\s*$`)
)

// CleanupTitle collapses a Goodreads title into its short form: the subtitle
// after the first colon, a trailing parenthesized series note and a trailing
// edition marker are removed.
//
//	CleanupTitle("Dune: A Novel (Dune, #1)") == "Dune"
//	CleanupTitle("Foundation 2nd Edition")   == "Foundation"
//
// Suffix stripping repeats until nothing changes, so the result is stable
// under a second application even for titles like "X (Book 1) 2nd Edition".
func CleanupTitle(title string) string {
	clean, _, _ := strings.Cut(title, ":")

	for {
		next := trailingParenRe.ReplaceAllString(clean, "")
		next = trailingEditionRe.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == clean {
			return clean
		}
		clean = next
	}
}
