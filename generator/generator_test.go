package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ai_tutorial_generator/config"
)

type llmFunc func(ctx context.Context, p Prompt) (string, error)

func (f llmFunc) Complete(ctx context.Context, p Prompt) (string, error) { return f(ctx, p) }

type stubTool struct {
	calls []string
}

func (s *stubTool) Name() string        { return "web_search" }
func (s *stubTool) Description() string { return "stub search" }
func (s *stubTool) Run(_ context.Context, input string) string {
	s.calls = append(s.calls, input)
	return "Python lists guide: Lists are ordered, mutable collections."
}

func testAgents() config.AgentsConfig {
	return config.Default().Agents
}

func TestAgentSpecValidate(t *testing.T) {
	assert.NoError(t, AgentSpec{Role: "Writer", Goal: "g", Backstory: "b"}.Validate())
	assert.ErrorContains(t, AgentSpec{Goal: "g", Backstory: "b"}.Validate(), "role")
	assert.ErrorContains(t, AgentSpec{Role: "Writer", Backstory: "b"}.Validate(), "goal")
	assert.ErrorContains(t, AgentSpec{Role: "Writer", Goal: "g"}.Validate(), "backstory")
}

func TestNewAgentRequiresLLM(t *testing.T) {
	_, err := NewAgent(AgentSpec{Role: "r", Goal: "g", Backstory: "b"}, nil, nil)
	require.Error(t, err)
}

func TestNewTutorialTasks(t *testing.T) {
	team, err := NewTeam(testAgents(), &MockLLM{}, nil)
	require.NoError(t, err)

	tasks, err := NewTutorialTasks("Python Lists", team)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "Research the topic: Python Lists.", tasks[0].Description)
	assert.Equal(t, "Key points and examples about python lists", tasks[0].ExpectedOutput)
	assert.Equal(t, "Python Lists", tasks[0].ToolInput)
	assert.Same(t, team.Researcher, tasks[0].Agent)

	assert.Equal(t, "Write a beginner-friendly tutorial on Python Lists using research output.", tasks[1].Description)
	assert.Equal(t, "Full tutorial on Python Lists in markdown format", tasks[1].ExpectedOutput)
	assert.Empty(t, tasks[1].ToolInput)
	assert.Same(t, team.Writer, tasks[1].Agent)

	assert.Equal(t, "Review the Python Lists tutorial for clarity and quality.", tasks[2].Description)
	assert.Equal(t, "Edited and improved final version", tasks[2].ExpectedOutput)
	assert.Same(t, team.Reviewer, tasks[2].Agent)

	_, err = NewTutorialTasks("   ", team)
	assert.Error(t, err)
}

func TestNewTeamRejectsMissingPersona(t *testing.T) {
	agents := testAgents()
	agents.Reviewer.Goal = ""
	_, err := NewTeam(agents, &MockLLM{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingKey)
}

func TestCrewKickoffSequential(t *testing.T) {
	var seen []Prompt
	llm := llmFunc(func(_ context.Context, p Prompt) (string, error) {
		seen = append(seen, p)
		return "out-" + string(rune('A'+len(seen)-1)), nil
	})
	tool := &stubTool{}
	team, err := NewTeam(testAgents(), llm, zaptest.NewLogger(t), tool)
	require.NoError(t, err)
	tasks, err := NewTutorialTasks("Python Lists", team)
	require.NoError(t, err)

	crew := &Crew{Tasks: tasks, Logger: zaptest.NewLogger(t)}
	out, err := crew.Kickoff(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "out-C", out.Raw)
	require.Len(t, out.Tasks, 3)
	assert.Equal(t, []string{"Researcher", "Writer", "Reviewer"},
		[]string{out.Tasks[0].Agent, out.Tasks[1].Agent, out.Tasks[2].Agent})

	// Only the researcher calls the search tool.
	assert.Equal(t, []string{"Python Lists"}, tool.calls)
	require.Len(t, out.Tasks[0].Observations, 1)
	assert.Contains(t, seen[0].User, "Tool results:")
	assert.Contains(t, seen[0].User, "Lists are ordered")

	// Later steps receive earlier outputs as context.
	assert.NotContains(t, seen[0].User, "Context from previous steps")
	assert.Contains(t, seen[1].User, "out-A")
	assert.Contains(t, seen[2].User, "out-A")
	assert.Contains(t, seen[2].User, "out-B")

	assert.Contains(t, seen[2].System, "You are Reviewer.")
}

func TestCrewKickoffStopsOnError(t *testing.T) {
	calls := 0
	llm := llmFunc(func(_ context.Context, p Prompt) (string, error) {
		calls++
		if strings.Contains(p.User, "Current task: Write") {
			return "", errors.New("model offline")
		}
		return "ok", nil
	})
	team, err := NewTeam(testAgents(), llm, nil)
	require.NoError(t, err)
	tasks, err := NewTutorialTasks("Python Lists", team)
	require.NoError(t, err)

	_, err = (&Crew{Tasks: tasks}).Kickoff(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
	assert.Contains(t, err.Error(), "model offline")
	assert.Equal(t, 2, calls)
}

func TestCrewKickoffEmpty(t *testing.T) {
	_, err := (&Crew{}).Kickoff(context.Background())
	assert.Error(t, err)
}

func TestCrewKickoffCanceled(t *testing.T) {
	team, err := NewTeam(testAgents(), &MockLLM{}, nil)
	require.NoError(t, err)
	tasks, err := NewTutorialTasks("Python Lists", team)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&Crew{Tasks: tasks}).Kickoff(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockLLMPipeline(t *testing.T) {
	mock := &MockLLM{}
	team, err := NewTeam(testAgents(), mock, nil)
	require.NoError(t, err)
	tasks, err := NewTutorialTasks("Python Lists", team)
	require.NoError(t, err)

	out, err := (&Crew{Tasks: tasks}).Kickoff(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Raw, "# Python Lists\n"))
	assert.Contains(t, out.Raw, "(reviewed)")
	assert.Len(t, mock.Prompts(), 3)
}

func TestMockLLMTopicFormatter(t *testing.T) {
	out, err := (&MockLLM{}).Complete(context.Background(), Prompt{User: "Rules...\nUser input: \"machine learning\"\nFormatted topic:"})
	require.NoError(t, err)
	assert.Equal(t, "Machine Learning", out)
}

func TestPostProcess(t *testing.T) {
	raw := "\n# Python Lists\n\nLists hold ordered values.\n\n## Creating\n"
	d, err := PostProcess(raw)
	require.NoError(t, err)
	assert.Equal(t, "Python Lists", d.Title)
	assert.Equal(t, "Lists hold ordered values.", d.Digest)
	assert.Equal(t, raw, d.Markdown)

	_, err = PostProcess(" \n\t")
	assert.Error(t, err)

	d, err = PostProcess("# Only a heading")
	require.NoError(t, err)
	assert.Equal(t, "# Only a heading", d.Digest)
}

func TestOllamaCompatURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1/", OllamaCompatURL("http://localhost:11434"))
	assert.Equal(t, "http://localhost:11434/v1/", OllamaCompatURL("http://localhost:11434/"))
	assert.Equal(t, "http://gpu:11434/v1/", OllamaCompatURL("http://gpu:11434/v1"))
}

func TestNewOpenAILLMFromConfig(t *testing.T) {
	_, err := NewOpenAILLMFromConfig(nil, 0)
	assert.Error(t, err)

	_, err = NewOpenAILLMFromConfig(&LLMSettings{Provider: "openai", Model: "gpt-4o-mini"}, 0)
	assert.ErrorContains(t, err, "api key")

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{Provider: "ollama", Model: "ollama/mistral:latest", BaseURL: "http://localhost:11434"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "mistral:latest", llm.Model)
}
