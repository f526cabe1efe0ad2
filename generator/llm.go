package generator

import "context"

// LLMClient abstracts the model endpoint so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the provider-independent model binding shared by every agent.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
