package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

var mockTaskRes = []*regexp.Regexp{
	regexp.MustCompile(`Current task: Research the topic: (.+)\.\n`),
	regexp.MustCompile(`Current task: Write a beginner-friendly tutorial on (.+) using research output\.\n`),
	regexp.MustCompile(`Current task: Review the (.+) tutorial for clarity and quality\.\n`),
}

var mockTopicInputRe = regexp.MustCompile(`User input: "(.*)"\s*\nFormatted topic:`)

// MockLLM is an offline stand-in for the model endpoint. It returns
// deterministic markdown based on the task in the prompt and records every
// prompt it receives.
type MockLLM struct {
	mu      sync.Mutex
	prompts []Prompt
}

func (m *MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if match := mockTopicInputRe.FindStringSubmatch(prompt.User); len(match) == 2 {
		return titleCase(match[1]), nil
	}

	topic := "the topic"
	for _, re := range mockTaskRes {
		if match := re.FindStringSubmatch(prompt.User); len(match) == 2 {
			topic = match[1]
			break
		}
	}

	switch {
	case strings.Contains(prompt.User, "Current task: Research"):
		return fmt.Sprintf("- %s is a core concept worth learning early.\n- Example: a short program that uses %s.\n", topic, topic), nil
	case strings.Contains(prompt.User, "Current task: Write"):
		return mockTutorial(topic, "Draft"), nil
	case strings.Contains(prompt.User, "Current task: Review"):
		return mockTutorial(topic, "Reviewed"), nil
	}

	var sb strings.Builder
	sb.WriteString("# Mock response\n\n")
	sb.WriteString("```\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}

// Prompts returns a copy of the prompts received so far.
func (m *MockLLM) Prompts() []Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Prompt(nil), m.prompts...)
}

func mockTutorial(topic, stage string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", topic))
	sb.WriteString(fmt.Sprintf("A beginner-friendly introduction to %s (%s).\n\n", topic, strings.ToLower(stage)))
	sb.WriteString("## What you will learn\n\n")
	sb.WriteString(fmt.Sprintf("- What %s is\n- How to use it\n\n", topic))
	sb.WriteString("## Example\n\n")
	sb.WriteString("```python\nprint(\"hello\")\n```\n")
	return sb.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
