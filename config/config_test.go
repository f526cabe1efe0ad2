package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crew_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimal = `
agents:
  researcher:
    role: Researcher
    goal: Find facts
    backstory: Curious.
  writer:
    role: Writer
    goal: Write tutorials
    backstory: Educator.
  reviewer:
    role: Reviewer
    goal: Improve drafts
    backstory: Editor.
llm:
  model: llama3
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "Researcher", cfg.Agents.Researcher.Role)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	assert.Equal(t, 8, cfg.Search.MaxResults)
	assert.Equal(t, 3, cfg.Search.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Search.BaseDelay)
	assert.Equal(t, "digest", cfg.Search.Mode)
	assert.Equal(t, "output/tutorial.md", cfg.Output.Path)
}

func TestLoadMissingAgentKey(t *testing.T) {
	body := `
agents:
  researcher:
    role: Researcher
    goal: Find facts
    backstory: Curious.
  writer:
    role: Writer
    goal: Write tutorials
  reviewer:
    role: Reviewer
    goal: Improve drafts
    backstory: Editor.
`
	_, err := Load(writeFile(t, body))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "agents.writer.backstory")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeFile(t, "agents: [unclosed"))
	require.Error(t, err)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	_, err := Load(writeFile(t, minimal+"  provider: bedrock\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.provider")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TUTORGEN_LLM_MODEL", "phi3")
	t.Setenv("TUTORGEN_SEARCH_MODE", "report")

	cfg, err := Load(writeFile(t, minimal))
	require.NoError(t, err)
	assert.Equal(t, "phi3", cfg.LLM.Model)
	assert.Equal(t, "report", cfg.Search.Mode)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "crew_config.yaml")
	require.NoError(t, WriteDefault(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	err = WriteDefault(path, false)
	assert.ErrorIs(t, err, os.ErrExist)
	assert.NoError(t, WriteDefault(path, true))
}
