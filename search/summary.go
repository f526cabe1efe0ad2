package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var termRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// DefaultStopwords are common words excluded from report summaries.
var DefaultStopwords = []string{
	"about", "after", "also", "because", "been", "before", "being", "between",
	"both", "could", "does", "each", "from", "have", "here", "into", "just",
	"like", "many", "more", "most", "much", "must", "only", "other", "over",
	"same", "should", "some", "such", "than", "that", "their", "them", "then",
	"there", "these", "they", "this", "those", "through", "used", "using",
	"very", "well", "were", "what", "when", "where", "which", "while", "will",
	"with", "would", "your",
}

// KeyTerms returns up to limit lower-cased terms of at least four runes
// that occur more than once across texts, most frequent first, ties
// broken alphabetically.
func KeyTerms(texts []string, stopwords map[string]struct{}, limit int) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, w := range termRe.FindAllString(strings.ToLower(text), -1) {
			if utf8.RuneCountInString(w) < minTermRunes {
				continue
			}
			if _, stop := stopwords[w]; stop {
				continue
			}
			counts[w]++
		}
	}

	terms := make([]string, 0, len(counts))
	for w, n := range counts {
		if n > 1 {
			terms = append(terms, w)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}
