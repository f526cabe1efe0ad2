// Package pipeline drives one tutorial run: research, write and review,
// then persist the reviewed markdown.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ai_tutorial_generator/config"
	"ai_tutorial_generator/generator"
	"ai_tutorial_generator/metrics"
	"ai_tutorial_generator/publisher"
)

// Deps are the collaborators of a Driver. LLM and Publisher are required.
type Deps struct {
	LLM       generator.LLMClient
	Agents    config.AgentsConfig
	Tools     []generator.Tool
	Publisher *publisher.Publisher
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

type Driver struct {
	llm       generator.LLMClient
	agents    config.AgentsConfig
	tools     []generator.Tool
	publisher *publisher.Publisher
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// Result describes a finished run. Draft.Markdown is the file content.
type Result struct {
	Topic    string
	Draft    generator.Draft
	Path     string
	Steps    []generator.TaskOutput
	Duration time.Duration
}

func New(d Deps) (*Driver, error) {
	if d.LLM == nil {
		return nil, errors.New("llm client required")
	}
	if d.Publisher == nil {
		return nil, errors.New("publisher required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Driver{
		llm:       d.LLM,
		agents:    d.Agents,
		tools:     d.Tools,
		publisher: d.Publisher,
		logger:    d.Logger,
		metrics:   d.Metrics,
	}, nil
}

// Run executes the three tasks for topic and writes the reviewer's output.
// Nothing is written when any step fails.
func (d *Driver) Run(ctx context.Context, topic string) (Result, error) {
	start := time.Now()
	res, err := d.run(ctx, topic)
	res.Duration = time.Since(start)

	status := "success"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "canceled"
	case err != nil:
		status = "error"
	}
	d.metrics.ObservePipeline(status, res.Duration)

	if err != nil {
		d.logger.Error("pipeline failed", zap.String("topic", topic), zap.Error(err))
		return res, err
	}
	d.logger.Info("pipeline finished",
		zap.String("topic", topic),
		zap.String("path", res.Path),
		zap.Duration("took", res.Duration))
	return res, nil
}

func (d *Driver) run(ctx context.Context, topic string) (Result, error) {
	res := Result{Topic: topic, Path: d.publisher.Path()}

	team, err := generator.NewTeam(d.agents, d.llm, d.logger, d.tools...)
	if err != nil {
		return res, fmt.Errorf("build agents: %w", err)
	}
	tasks, err := generator.NewTutorialTasks(topic, team)
	if err != nil {
		return res, fmt.Errorf("build tasks: %w", err)
	}

	d.logger.Info("pipeline started", zap.String("topic", topic), zap.Int("tasks", len(tasks)))
	crew := &generator.Crew{Tasks: tasks, Logger: d.logger}
	out, err := crew.Kickoff(ctx)
	if err != nil {
		return res, err
	}
	res.Steps = out.Tasks

	draft, err := generator.PostProcess(out.Raw)
	if err != nil {
		return res, err
	}
	if err := d.publisher.Write(draft.Markdown); err != nil {
		return res, err
	}
	res.Draft = draft
	return res, nil
}
