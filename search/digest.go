package search

import (
	"strings"
	"unicode/utf8"

	"ai_tutorial_generator/textclean"
)

const (
	digestMinBody = 30
	digestMaxBody = 120
)

// DigestFormatter emits one "title: body" line per usable result.
type DigestFormatter struct{}

func (DigestFormatter) Format(_ string, results []Result) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		title := textclean.Clean(r.Title)
		body := textclean.Clean(r.Body)
		if utf8.RuneCountInString(title) < minTitleRunes || utf8.RuneCountInString(body) < digestMinBody {
			continue
		}
		lines = append(lines, truncateTitle(title)+": "+truncate(body, digestMaxBody, digestMaxBody-3))
	}
	return strings.Join(lines, "\n")
}
