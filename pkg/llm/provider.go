package llm

import (
	"context"
)

// Roles understood by every provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// System builds a system message
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User builds a user message
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	// JSON asks the backend to constrain output to a JSON object where it can.
	// The prompt must still mention JSON; some backends reject the request otherwise.
	JSON bool
}

// DefaultOptions are applied before caller options
func DefaultOptions() *Options {
	return &Options{
		Temperature: 0.0,
		MaxTokens:   1024,
	}
}

// Apply folds opts over the defaults
func Apply(opts ...Option) *Options {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithJSON() Option {
	return func(o *Options) {
		o.JSON = true
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any chat-completion backend.
// Implementations are not required to return valid JSON even when asked to;
// callers go through pkg/llm/structured.
type LLMProvider interface {
	// Chat sends an ordered message list to the model and returns the raw text response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// SplitSystem separates system messages (joined) from the conversation.
// Providers whose API takes the system prompt out of band use it.
func SplitSystem(history []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(history))
	for _, m := range history {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
