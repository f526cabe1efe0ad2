package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AgentSpec is an agent persona. It is a value type; copies never alias.
type AgentSpec struct {
	Role      string
	Goal      string
	Backstory string
}

// Validate reports the first empty field.
func (s AgentSpec) Validate() error {
	switch {
	case strings.TrimSpace(s.Role) == "":
		return errors.New("agent role is required")
	case strings.TrimSpace(s.Goal) == "":
		return fmt.Errorf("agent %q: goal is required", s.Role)
	case strings.TrimSpace(s.Backstory) == "":
		return fmt.Errorf("agent %q: backstory is required", s.Role)
	}
	return nil
}

// Tool is something an agent can call before answering. Tools degrade to a
// descriptive string instead of failing.
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, input string) string
}

// Agent binds a persona to a model and its tools.
type Agent struct {
	spec   AgentSpec
	llm    LLMClient
	tools  []Tool
	logger *zap.Logger
}

func NewAgent(spec AgentSpec, llm LLMClient, logger *zap.Logger, tools ...Tool) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{spec: spec, llm: llm, tools: tools, logger: logger}, nil
}

// Spec returns the agent persona.
func (a *Agent) Spec() AgentSpec { return a.spec }

// Role is shorthand for Spec().Role.
func (a *Agent) Role() string { return a.spec.Role }

// Perform runs the agent's tools on the task's tool input, then asks the
// model for the task output given the prior outputs.
func (a *Agent) Perform(ctx context.Context, task Task, prior []TaskOutput) (TaskOutput, error) {
	start := time.Now()

	var observations []Observation
	if task.ToolInput != "" {
		for _, tool := range a.tools {
			a.logger.Debug("calling tool",
				zap.String("agent", a.spec.Role),
				zap.String("tool", tool.Name()),
				zap.String("input", task.ToolInput))
			out := tool.Run(ctx, task.ToolInput)
			observations = append(observations, Observation{Tool: tool.Name(), Input: task.ToolInput, Output: out})
		}
	}

	prompt := BuildTaskPrompt(a.spec, task, prior, observations)
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return TaskOutput{}, fmt.Errorf("%s: %w", a.spec.Role, err)
	}

	return TaskOutput{
		Agent:        a.spec.Role,
		Description:  task.Description,
		Raw:          raw,
		Observations: observations,
		Duration:     time.Since(start),
	}, nil
}
