package generator

import (
	"errors"
	"regexp"
	"strings"

	"ai_tutorial_generator/publisher"
)

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// PostProcess derives the title and digest of a tutorial. The markdown is
// kept byte-for-byte; only blank output is rejected.
func PostProcess(raw string) (Draft, error) {
	if strings.TrimSpace(raw) == "" {
		return Draft{}, errors.New("model returned empty markdown")
	}

	md := strings.TrimSpace(raw)
	digest := extractDigest(md)
	if digest == "" {
		digest = publisher.Digest(md, 120)
	}

	return Draft{
		Title:    extractTitle(md),
		Digest:   digest,
		Markdown: raw,
	}, nil
}

func extractTitle(md string) string {
	m := titleRe.FindStringSubmatch(md)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// First paragraph line that is not a heading.
func extractDigest(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") {
			continue
		}
		return line
	}
	return ""
}
