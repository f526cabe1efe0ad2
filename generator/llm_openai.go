package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ollamaPlaceholderKey is sent to local endpoints, which ignore it.
const ollamaPlaceholderKey = "ollama"

// OpenAILLM implements LLMClient with the openai-go SDK (chat completions).
// Local Ollama servers expose the same API under /v1.
type OpenAILLM struct {
	Model string
	Opts  []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings, timeout time.Duration) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}

	apiKey := cfg.APIKey
	baseURL := cfg.BaseURL
	switch cfg.Provider {
	case "ollama":
		if baseURL == "" {
			return nil, errors.New("ollama provider requires llm.base_url")
		}
		baseURL = OllamaCompatURL(baseURL)
		if apiKey == "" {
			apiKey = ollamaPlaceholderKey
		}
	default:
		if apiKey == "" {
			return nil, errors.New("openai api key missing; provide llm.api_key")
		}
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &OpenAILLM{Model: strings.TrimPrefix(cfg.Model, "ollama/"), Opts: opts}, nil
}

// OllamaCompatURL maps an Ollama base URL such as http://localhost:11434 to
// its OpenAI-compatible root.
func OllamaCompatURL(base string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/"
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	var msgs []openai.ChatCompletionMessageParamUnion
	if prompt.System != "" {
		msgs = append(msgs, openai.SystemMessage(prompt.System))
	}
	for _, h := range prompt.History {
		switch h.Role {
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(h.Content))
		default:
			msgs = append(msgs, openai.UserMessage(h.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(prompt.User))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.Model),
		Messages: msgs,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
