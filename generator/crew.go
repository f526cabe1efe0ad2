package generator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Crew runs tasks strictly in order. Each task sees the outputs of every
// task before it.
type Crew struct {
	Tasks  []Task
	Logger *zap.Logger
}

// Kickoff executes the tasks and returns the last task's output as Raw.
func (c *Crew) Kickoff(ctx context.Context) (CrewOutput, error) {
	if len(c.Tasks) == 0 {
		return CrewOutput{}, errors.New("crew has no tasks")
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outputs := make([]TaskOutput, 0, len(c.Tasks))
	for i, task := range c.Tasks {
		if task.Agent == nil {
			return CrewOutput{}, fmt.Errorf("task %d has no agent", i+1)
		}
		if err := ctx.Err(); err != nil {
			return CrewOutput{}, err
		}
		logger.Info("task started",
			zap.Int("step", i+1),
			zap.Int("steps", len(c.Tasks)),
			zap.String("agent", task.Agent.Role()),
			zap.String("task", task.Description))

		out, err := task.Agent.Perform(ctx, task, outputs)
		if err != nil {
			return CrewOutput{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Info("task finished",
			zap.Int("step", i+1),
			zap.String("agent", out.Agent),
			zap.Int("chars", len(out.Raw)),
			zap.Duration("took", out.Duration))
		outputs = append(outputs, out)
	}

	return CrewOutput{Raw: outputs[len(outputs)-1].Raw, Tasks: outputs}, nil
}
