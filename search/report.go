package search

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"ai_tutorial_generator/textclean"
)

const (
	reportMinBody = 50
	genericLimit  = 150
	genericName   = "generic"
	summaryTerms  = 8
	minTermRunes  = 4
)

// Category is a keyword class for report excerpts. Limit caps the excerpt
// in runes.
type Category struct {
	Name     string
	Keywords []string
	Limit    int
}

// DefaultCategories is evaluated in order; the first match wins.
var DefaultCategories = []Category{
	{Name: "definition", Keywords: []string{"is a", "is an", "refers to", "defined as", "definition", "means"}, Limit: 150},
	{Name: "example", Keywords: []string{"example", "for instance", "such as", "sample", "demonstrates"}, Limit: 200},
	{Name: "explanation", Keywords: []string{"because", "how to", "works by", "explains", "in order to", "step"}, Limit: 200},
	{Name: "benefit", Keywords: []string{"benefit", "advantage", "improves", "helps", "faster", "efficient"}, Limit: 150},
	{Name: "concept", Keywords: []string{"concept", "principle", "fundamental", "theory", "basics"}, Limit: 180},
}

type compiledCategory struct {
	Category
	re *regexp.Regexp
}

// ReportFormatter emits a numbered list of categorized excerpts followed by
// a one-sentence summary of recurring terms.
type ReportFormatter struct {
	categories []compiledCategory
	stopwords  map[string]struct{}
}

func NewReportFormatter() *ReportFormatter {
	return NewReportFormatterWith(DefaultCategories, DefaultStopwords)
}

// NewReportFormatterWith uses custom categories and stopwords.
func NewReportFormatterWith(categories []Category, stopwords []string) *ReportFormatter {
	f := &ReportFormatter{stopwords: make(map[string]struct{}, len(stopwords))}
	for _, c := range categories {
		if len(c.Keywords) == 0 {
			continue
		}
		quoted := make([]string, len(c.Keywords))
		for i, kw := range c.Keywords {
			quoted[i] = regexp.QuoteMeta(kw)
		}
		f.categories = append(f.categories, compiledCategory{
			Category: c,
			re:       regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		})
	}
	for _, w := range stopwords {
		f.stopwords[strings.ToLower(w)] = struct{}{}
	}
	return f
}

// Categorize returns the category name and excerpt for body.
func (f *ReportFormatter) Categorize(body string) (string, string) {
	for _, c := range f.categories {
		loc := c.re.FindStringIndex(body)
		if loc == nil {
			continue
		}
		excerpt := body[sentenceStart(body, loc[0]):]
		return c.Name, truncate(excerpt, c.Limit, c.Limit)
	}
	return genericName, truncate(body, genericLimit, genericLimit)
}

// sentenceStart returns the byte offset where the sentence containing i
// begins.
func sentenceStart(s string, i int) int {
	for j := i - 1; j > 0; j-- {
		if s[j] == ' ' && strings.ContainsRune(".!?", rune(s[j-1])) {
			return j + 1
		}
	}
	return 0
}

func (f *ReportFormatter) Format(query string, results []Result) string {
	var sb strings.Builder
	var bodies []string
	for _, r := range results {
		title := textclean.Clean(r.Title)
		body := textclean.Clean(r.Body)
		if utf8.RuneCountInString(title) < minTitleRunes || utf8.RuneCountInString(body) < reportMinBody {
			continue
		}
		bodies = append(bodies, body)
		category, excerpt := f.Categorize(body)

		fmt.Fprintf(&sb, "%d. %s [%s]\n   %s\n", len(bodies), truncateTitle(title), category, excerpt)
		if r.Link != "" {
			fmt.Fprintf(&sb, "   Source: %s\n", r.Link)
		}
		sb.WriteString("\n")
	}
	if len(bodies) == 0 {
		return ""
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Search results for %q:\n\n", query)
	out.WriteString(sb.String())
	out.WriteString(f.summary(query, bodies))
	return out.String()
}

func (f *ReportFormatter) summary(query string, bodies []string) string {
	terms := KeyTerms(bodies, f.stopwords, summaryTerms)
	if len(terms) == 0 {
		return fmt.Sprintf("Summary: %d sources on %q, no recurring terms.", len(bodies), query)
	}
	return fmt.Sprintf("Summary: %d sources on %q repeatedly mention %s.",
		len(bodies), query, strings.Join(terms, ", "))
}
