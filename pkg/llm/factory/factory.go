package factory

import (
	"context"
	"fmt"

	"fin-analyst-be/pkg/llm"
	"fin-analyst-be/pkg/llm/anthropic"
	"fin-analyst-be/pkg/llm/gemini"
	"fin-analyst-be/pkg/llm/ollama"
	"fin-analyst-be/pkg/llm/openai"
)

// Settings selects and configures a chat-completion backend
type Settings struct {
	Provider string // "openai" (Groq by default), "ollama", "anthropic", "gemini"
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "openai", "groq", "":
		if s.APIKey == "" {
			return nil, fmt.Errorf("missing API key for %q provider", s.Provider)
		}
		return openai.NewProvider(s.BaseURL, s.APIKey, s.Model), nil
	case "ollama":
		return ollama.NewOllamaProvider(s.BaseURL, s.Model), nil
	case "anthropic":
		if s.APIKey == "" {
			return nil, fmt.Errorf("missing API key for anthropic provider")
		}
		return anthropic.NewProvider(s.APIKey, s.Model), nil
	case "gemini":
		return gemini.NewProvider(ctx, s.APIKey, s.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
