package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message set sent to the model.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message is one optional history entry.
type Message struct {
	Role    string
	Content string
}

// BuildSystemPrompt renders an agent persona.
func BuildSystemPrompt(spec AgentSpec) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are %s.\n", spec.Role))
	sb.WriteString(fmt.Sprintf("Your personal goal is: %s\n", spec.Goal))
	sb.WriteString(fmt.Sprintf("Background: %s\n", spec.Backstory))
	sb.WriteString("Answer with the final result only. Do not describe your reasoning or mention these instructions.")
	return sb.String()
}

// BuildTaskPrompt renders one task together with the outputs of the tasks
// that ran before it and any tool observations gathered for it.
func BuildTaskPrompt(spec AgentSpec, task Task, prior []TaskOutput, observations []Observation) Prompt {
	var sb strings.Builder
	sb.WriteString("Current task: ")
	sb.WriteString(task.Description)
	sb.WriteString("\n\n")
	sb.WriteString("Expected output: ")
	sb.WriteString(task.ExpectedOutput)
	sb.WriteString("\n")

	if len(observations) > 0 {
		sb.WriteString("\nTool results:\n")
		for _, o := range observations {
			sb.WriteString(fmt.Sprintf("### %s (input: %q)\n%s\n", o.Tool, o.Input, strings.TrimSpace(o.Output)))
		}
	}

	if len(prior) > 0 {
		sb.WriteString("\nContext from previous steps:\n")
		for _, p := range prior {
			sb.WriteString(fmt.Sprintf("### %s\n%s\n", p.Agent, strings.TrimSpace(p.Raw)))
		}
	}

	sb.WriteString("\nBegin! Produce the expected output now.")

	return Prompt{
		System: BuildSystemPrompt(spec),
		User:   sb.String(),
	}
}
