package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration, the same one `init` writes.
func Default() *Config {
	return &Config{
		Agents: AgentsConfig{
			Researcher: AgentConfig{
				Role:      "Researcher",
				Goal:      "Gather accurate key points, definitions and examples about the tutorial topic",
				Backstory: "A meticulous technical researcher who searches the web, filters noise and distills the essentials a beginner needs to know.",
			},
			Writer: AgentConfig{
				Role:      "Writer",
				Goal:      "Create easy-to-understand and engaging tutorials based on research",
				Backstory: "A professional Python educator and content writer who specializes in breaking down complex programming topics into simple, structured tutorials.",
			},
			Reviewer: AgentConfig{
				Role:      "Reviewer",
				Goal:      "Review tutorials for clarity, correctness and beginner friendliness, and return the improved final version",
				Backstory: "A senior technical editor who has reviewed hundreds of programming tutorials and knows exactly where beginners get lost.",
			},
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "mistral:latest",
			BaseURL:  "http://localhost:11434",
			Timeout:  5 * time.Minute,
		},
		Search: SearchConfig{
			Endpoint:    "https://lite.duckduckgo.com/lite/",
			MaxResults:  8,
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			Timeout:     15 * time.Second,
			Mode:        "digest",
		},
		Output: OutputConfig{Path: "output/tutorial.md"},
		Server: ServerConfig{Addr: ":8080", RequestTimeout: 15 * time.Minute},
		Log:    LogConfig{Level: "info"},
	}
}

// document renders cfg as plain YAML values; durations are written in
// their string form so the file stays hand-editable.
func document(cfg *Config) map[string]any {
	agent := func(a AgentConfig) map[string]string {
		return map[string]string{"role": a.Role, "goal": a.Goal, "backstory": a.Backstory}
	}
	llm := map[string]any{
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model,
		"base_url": cfg.LLM.BaseURL,
		"timeout":  cfg.LLM.Timeout.String(),
	}
	if cfg.LLM.APIKey != "" {
		llm["api_key"] = cfg.LLM.APIKey
	}
	return map[string]any{
		"agents": map[string]any{
			"researcher": agent(cfg.Agents.Researcher),
			"writer":     agent(cfg.Agents.Writer),
			"reviewer":   agent(cfg.Agents.Reviewer),
		},
		"llm": llm,
		"search": map[string]any{
			"endpoint":     cfg.Search.Endpoint,
			"max_results":  cfg.Search.MaxResults,
			"max_attempts": cfg.Search.MaxAttempts,
			"base_delay":   cfg.Search.BaseDelay.String(),
			"timeout":      cfg.Search.Timeout.String(),
			"mode":         cfg.Search.Mode,
		},
		"output": map[string]any{"path": cfg.Output.Path},
		"server": map[string]any{
			"addr":            cfg.Server.Addr,
			"request_timeout": cfg.Server.RequestTimeout.String(),
		},
		"log": map[string]any{
			"level":       cfg.Log.Level,
			"development": cfg.Log.Development,
		},
	}
}

// WriteDefault writes Default() to path. Existing files are left alone
// unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s: %w", path, os.ErrExist)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	data, err := yaml.Marshal(document(Default()))
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
