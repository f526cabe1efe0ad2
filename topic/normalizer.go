// Package topic turns raw user input into a tutorial-ready topic string.
package topic

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"ai_tutorial_generator/generator"
	"ai_tutorial_generator/metrics"
	"ai_tutorial_generator/textclean"
)

// DefaultTopic is used when the input is empty or normalizes to nothing.
const DefaultTopic = "Python Programming Basics"

type substitution struct {
	re   *regexp.Regexp
	repl string
}

// Applied in order.
var substitutions = []substitution{
	{regexp.MustCompile(`(?i)\bpython\b`), "Python"},
	{regexp.MustCompile(`(?i)\bjavascript\b`), "JavaScript"},
	{regexp.MustCompile(`(?i)\bmachine learn\b`), "machine learning"},
	{regexp.MustCompile(`(?i)\bml\b`), "machine learning"},
	{regexp.MustCompile(`(?i)\bai\b`), "artificial intelligence"},
	{regexp.MustCompile(`(?i)\bapi\b`), "API"},
	{regexp.MustCompile(`(?i)\bhtml\b`), "HTML"},
	{regexp.MustCompile(`(?i)\bcss\b`), "CSS"},
	{regexp.MustCompile(`(?i)\bsql\b`), "SQL"},
}

var clearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^[A-Z][a-z]+ (tutorial|guide|basics|introduction)`),
	regexp.MustCompile(`(?i)^(Learn|Learning) \w+`),
	regexp.MustCompile(`(?i)^(How to|Getting started with) \w+`),
	regexp.MustCompile(`(?i)^\w+ (programming|development|fundamentals)`),
}

var (
	replyPrefixRe = regexp.MustCompile(`(?i)^(Topic:|Formatted topic:|Answer:)`)
	edgeNonWordRe = regexp.MustCompile(`^[^\p{L}\p{N}_]+|[^\p{L}\p{N}_]+$`)
)

// Normalizer cleans topics and asks the model to rewrite unclear ones.
type Normalizer struct {
	llm     generator.LLMClient
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewNormalizer returns a Normalizer. A nil llm disables rewriting.
func NewNormalizer(llm generator.LLMClient, logger *zap.Logger, m *metrics.Metrics) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{llm: llm, logger: logger, metrics: m}
}

// Normalize returns a tutorial-ready topic. It never fails: model errors
// fall back to the cleaned input.
func (n *Normalizer) Normalize(ctx context.Context, raw string) string {
	cleaned := Cleanup(raw)
	if cleaned == "" {
		n.metrics.Normalization("default")
		return DefaultTopic
	}
	if IsClear(cleaned) {
		n.metrics.Normalization("clear")
		return cleaned
	}

	rewritten, err := n.rewrite(ctx, cleaned)
	if err != nil {
		n.metrics.Normalization("llm_error")
		n.logger.Warn("topic rewrite failed, keeping cleaned input",
			zap.String("topic", cleaned), zap.Error(err))
		return FinalCleanup(cleaned)
	}
	n.metrics.Normalization("llm")
	out := FinalCleanup(rewritten)
	n.logger.Debug("topic rewritten", zap.String("raw", raw), zap.String("topic", out))
	return out
}

func (n *Normalizer) rewrite(ctx context.Context, text string) (string, error) {
	if n.llm == nil {
		return "", errors.New("no model configured")
	}
	reply, err := n.llm.Complete(ctx, generator.Prompt{User: BuildPrompt(text)})
	if err != nil {
		return "", err
	}
	if out := ParseReply(reply); out != "" {
		return out, nil
	}
	return text, nil
}

// Cleanup applies the text cleaner and the acronym/casing substitutions.
func Cleanup(raw string) string {
	text := textclean.Clean(raw)
	for _, s := range substitutions {
		text = s.re.ReplaceAllString(text, s.repl)
	}
	return text
}

// IsClear reports whether text is already a usable topic.
func IsClear(text string) bool {
	if len(strings.Fields(text)) >= 3 && (strings.HasSuffix(text, ".") || looksLikeTopic(text)) {
		return true
	}
	for _, re := range clearPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// 1-8 words, leading capital, more than five characters.
func looksLikeTopic(text string) bool {
	words := strings.Fields(text)
	if len(words) < 1 || len(words) > 8 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(text)
	return unicode.IsUpper(first) && utf8.RuneCountInString(text) > 5
}

// ParseReply extracts the topic from a model reply: the first non-empty
// line without label prefixes or surrounding quotes.
func ParseReply(reply string) string {
	line := ""
	for _, l := range strings.Split(reply, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.TrimSpace(replyPrefixRe.ReplaceAllString(line, ""))
	return strings.Trim(line, `"'`)
}

// FinalCleanup strips non-word characters at both ends, capitalizes the
// first letter and falls back to DefaultTopic for degenerate results.
func FinalCleanup(text string) string {
	text = edgeNonWordRe.ReplaceAllString(text, "")
	if text != "" {
		r, size := utf8.DecodeRuneInString(text)
		if !unicode.IsUpper(r) {
			text = string(unicode.ToUpper(r)) + text[size:]
		}
	}
	if utf8.RuneCountInString(text) < 2 {
		return DefaultTopic
	}
	return text
}
