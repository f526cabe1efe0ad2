package search

import (
	"fmt"
	"unicode/utf8"
)

// Formatter turns raw results into the text handed to the researcher agent.
// It returns "" when nothing survives filtering.
type Formatter interface {
	Format(query string, results []Result) string
}

const (
	ModeDigest = "digest"
	ModeReport = "report"
)

// NewFormatter returns the formatter for a search.mode value.
func NewFormatter(mode string) (Formatter, error) {
	switch mode {
	case "", ModeDigest:
		return DigestFormatter{}, nil
	case ModeReport:
		return NewReportFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}
}

const (
	minTitleRunes = 10
	maxTitleRunes = 55
)

// truncate cuts s to keep runes plus an ellipsis when it exceeds max runes.
func truncate(s string, max, keep int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:keep]) + "…"
}

func truncateTitle(title string) string {
	return truncate(title, maxTitleRunes, maxTitleRunes-3)
}
