package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAILLMCompleteAgainstOllamaShape(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "mistral:latest",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "# Python Lists"}}]
		}`))
	}))
	defer srv.Close()

	llm, err := NewOpenAILLMFromConfig(&LLMSettings{Provider: "ollama", Model: "mistral:latest", BaseURL: srv.URL}, 10*time.Second)
	require.NoError(t, err)

	out, err := llm.Complete(context.Background(), Prompt{System: "You are Writer.", User: "Write."})
	require.NoError(t, err)
	assert.Equal(t, "# Python Lists", out)

	assert.Equal(t, "mistral:latest", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "You are Writer.", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
}
