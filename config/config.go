// Package config loads the tutorial generator configuration: agent
// personas, the model endpoint, search, output and server settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath is where the CLI looks for the configuration file.
const DefaultPath = "configs/crew_config.yaml"

// ErrMissingKey is wrapped by validation errors for required keys.
var ErrMissingKey = errors.New("missing required config key")

// Config holds all configuration for the generator.
type Config struct {
	Agents AgentsConfig `mapstructure:"agents" yaml:"agents"`
	LLM    LLMConfig    `mapstructure:"llm" yaml:"llm"`
	Search SearchConfig `mapstructure:"search" yaml:"search"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// AgentConfig is the persona of one agent.
type AgentConfig struct {
	Role      string `mapstructure:"role" yaml:"role"`
	Goal      string `mapstructure:"goal" yaml:"goal"`
	Backstory string `mapstructure:"backstory" yaml:"backstory"`
}

// AgentsConfig lists the three pipeline personas.
type AgentsConfig struct {
	Researcher AgentConfig `mapstructure:"researcher" yaml:"researcher"`
	Writer     AgentConfig `mapstructure:"writer" yaml:"writer"`
	Reviewer   AgentConfig `mapstructure:"reviewer" yaml:"reviewer"`
}

// LLMConfig identifies the model endpoint shared by every agent.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"` // ollama, openai, mock
	Model    string        `mapstructure:"model" yaml:"model"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SearchConfig configures the research agent's web search tool.
type SearchConfig struct {
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint"`
	MaxResults  int           `mapstructure:"max_results" yaml:"max_results"`
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay" yaml:"base_delay"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Mode        string        `mapstructure:"mode" yaml:"mode"` // digest or report
}

// OutputConfig points at the single tutorial artifact.
type OutputConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ServerConfig contains HTTP settings for the web form.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// Validate checks that a persona has every field set. name is the agent key
// used in error messages.
func (a AgentConfig) Validate(name string) error {
	fields := []struct {
		key, val string
	}{
		{"role", a.Role},
		{"goal", a.Goal},
		{"backstory", a.Backstory},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.val) == "" {
			return fmt.Errorf("%w: agents.%s.%s", ErrMissingKey, name, f.key)
		}
	}
	return nil
}

// Validate checks all three personas.
func (a AgentsConfig) Validate() error {
	if err := a.Researcher.Validate("researcher"); err != nil {
		return err
	}
	if err := a.Writer.Validate("writer"); err != nil {
		return err
	}
	return a.Reviewer.Validate("reviewer")
}

// Validate checks the model binding.
func (l LLMConfig) Validate() error {
	switch l.Provider {
	case "ollama", "openai", "mock":
	default:
		return fmt.Errorf("llm.provider %q not supported (ollama, openai, mock)", l.Provider)
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("%w: llm.model", ErrMissingKey)
	}
	if l.Provider == "ollama" && strings.TrimSpace(l.BaseURL) == "" {
		return fmt.Errorf("%w: llm.base_url", ErrMissingKey)
	}
	return nil
}

// Validate checks search settings.
func (s SearchConfig) Validate() error {
	if s.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be > 0")
	}
	if s.MaxAttempts <= 0 {
		return fmt.Errorf("search.max_attempts must be > 0")
	}
	if s.BaseDelay < 0 {
		return fmt.Errorf("search.base_delay cannot be negative")
	}
	switch s.Mode {
	case "digest", "report":
	default:
		return fmt.Errorf("search.mode %q not supported (digest, report)", s.Mode)
	}
	return nil
}

// Validate runs every section check.
func (c *Config) Validate() error {
	if err := c.Agents.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return fmt.Errorf("%w: output.path", ErrMissingKey)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.model", "mistral:latest")
	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", "5m")

	v.SetDefault("search.endpoint", "https://lite.duckduckgo.com/lite/")
	v.SetDefault("search.max_results", 8)
	v.SetDefault("search.max_attempts", 3)
	v.SetDefault("search.base_delay", "1s")
	v.SetDefault("search.timeout", "15s")
	v.SetDefault("search.mode", "digest")

	v.SetDefault("output.path", "output/tutorial.md")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout", "15m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads the YAML file at path, applies defaults and TUTORGEN_*
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TUTORGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
