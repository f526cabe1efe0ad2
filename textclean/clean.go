// Package textclean normalizes free text scraped from search results and
// typed by users: whitespace, a restricted character set, and date or UI
// noise that carries no content.
package textclean

import (
	"regexp"
	"strings"
)

var (
	spaceRe = regexp.MustCompile(`[\s\v\p{Z}]+`)

	// Letters, digits, underscore, whitespace and a fixed punctuation allow-list.
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,!?;:()\[\]{}"/·+#']`)

	noiseRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},?\s+\d{4}\b`),
		regexp.MustCompile(`(?i)\b\d+\s+(?:seconds?|minutes?|hours?|days?|weeks?|months?|years?)\s+ago\b`),
		regexp.MustCompile(`(?i)\b(?:read more|see more|show more)\b`),
	}
)

// maxNoisePasses bounds the fixpoint loop; each pass removes at least one
// match so real input settles in one or two.
const maxNoisePasses = 16

// CollapseSpace trims s and collapses every whitespace run to one space.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Clean returns s with collapsed whitespace, disallowed characters removed
// and noise patterns stripped. Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	if s == "" {
		return ""
	}
	out := spaceRe.ReplaceAllString(s, " ")
	out = disallowedRe.ReplaceAllString(out, "")
	out = CollapseSpace(out)

	// Removing one match can join its neighbours into a new one, so strip
	// until nothing changes.
	for i := 0; i < maxNoisePasses; i++ {
		next := out
		for _, re := range noiseRes {
			next = re.ReplaceAllString(next, "")
		}
		next = CollapseSpace(next)
		if next == out {
			break
		}
		out = next
	}
	return out
}
