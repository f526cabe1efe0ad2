package publisher

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy = newPolicy()

	nonAlnumRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Fenced code blocks carry the language as a class.
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#-]+$`)).OnElements("code")
	return p
}

// RenderHTML converts tutorial markdown to HTML safe to embed in a page.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}

// DownloadName derives the attachment filename for a topic:
// "Python Lists!" becomes "Python_Lists_tutorial.md".
func DownloadName(topic string) string {
	name := nonAlnumRe.ReplaceAllString(topic, "")
	name = spacesRe.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		return "tutorial.md"
	}
	return name + "_tutorial.md"
}

// Stats summarizes a tutorial for the preview pane.
type Stats struct {
	Words int `json:"words"`
	Lines int `json:"lines"`
	Chars int `json:"chars"`
}

func ComputeStats(markdown string) Stats {
	if markdown == "" {
		return Stats{}
	}
	return Stats{
		Words: len(strings.Fields(markdown)),
		Lines: strings.Count(strings.TrimSuffix(markdown, "\n"), "\n") + 1,
		Chars: utf8.RuneCountInString(markdown),
	}
}

// Digest collapses whitespace and returns at most limit runes.
func Digest(markdown string, limit int) string {
	joined := strings.Join(strings.Fields(markdown), " ")
	if utf8.RuneCountInString(joined) <= limit {
		return joined
	}
	return string([]rune(joined)[:limit])
}
