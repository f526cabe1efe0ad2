package generator

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ai_tutorial_generator/config"
)

// Task is one unit of work assigned to one agent.
type Task struct {
	Description    string
	ExpectedOutput string
	Agent          *Agent
	// ToolInput is passed to the agent's tools; empty skips them.
	ToolInput string
}

// Team is the three pipeline agents.
type Team struct {
	Researcher *Agent
	Writer     *Agent
	Reviewer   *Agent
}

// Agents lists the team in pipeline order.
func (t Team) Agents() []*Agent {
	return []*Agent{t.Researcher, t.Writer, t.Reviewer}
}

func specFrom(a config.AgentConfig) AgentSpec {
	return AgentSpec{Role: a.Role, Goal: a.Goal, Backstory: a.Backstory}
}

// NewTeam builds the researcher, writer and reviewer from configuration.
// Research tools are bound to the researcher only.
func NewTeam(cfg config.AgentsConfig, llm LLMClient, logger *zap.Logger, researchTools ...Tool) (Team, error) {
	if err := cfg.Validate(); err != nil {
		return Team{}, err
	}
	researcher, err := NewAgent(specFrom(cfg.Researcher), llm, logger, researchTools...)
	if err != nil {
		return Team{}, fmt.Errorf("researcher: %w", err)
	}
	writer, err := NewAgent(specFrom(cfg.Writer), llm, logger)
	if err != nil {
		return Team{}, fmt.Errorf("writer: %w", err)
	}
	reviewer, err := NewAgent(specFrom(cfg.Reviewer), llm, logger)
	if err != nil {
		return Team{}, fmt.Errorf("reviewer: %w", err)
	}
	return Team{Researcher: researcher, Writer: writer, Reviewer: reviewer}, nil
}

// NewTutorialTasks returns the fixed research, write and review tasks for topic.
func NewTutorialTasks(topic string, team Team) ([]Task, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	return []Task{
		{
			Description:    fmt.Sprintf("Research the topic: %s.", topic),
			ExpectedOutput: fmt.Sprintf("Key points and examples about %s", strings.ToLower(topic)),
			Agent:          team.Researcher,
			ToolInput:      topic,
		},
		{
			Description:    fmt.Sprintf("Write a beginner-friendly tutorial on %s using research output.", topic),
			ExpectedOutput: fmt.Sprintf("Full tutorial on %s in markdown format", topic),
			Agent:          team.Writer,
		},
		{
			Description:    fmt.Sprintf("Review the %s tutorial for clarity and quality.", topic),
			ExpectedOutput: "Edited and improved final version",
			Agent:          team.Reviewer,
		},
	}, nil
}
