package embedding

import (
	"context"
	"fmt"
)

// Settings selects and configures an embedding backend
type Settings struct {
	Provider string // "ollama", "gemini" or "hash"
	Model    string
	BaseURL  string
	APIKey   string
	Dims     int
}

func NewEmbedder(ctx context.Context, s Settings) (Embedder, error) {
	switch s.Provider {
	case "ollama", "":
		return NewOllamaEmbedder(s.BaseURL, s.Model, s.Dims), nil
	case "gemini":
		return NewGenAIEmbedder(ctx, s.APIKey, s.Model, "")
	case "hash":
		return NewHashEmbedder(s.Dims), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", s.Provider)
	}
}
