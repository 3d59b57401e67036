// Package llm provides the language-model client abstraction and its
// provider implementations (Ollama, OpenAI-compatible, Gemini).
package llm

import (
	"context"
	"fmt"
	"time"
)

// Message roles accepted by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in a chat exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is an abstraction over LLM providers.
type Client interface {
	// Chat sends an ordered list of role-tagged messages and returns the
	// generated text.
	Chat(ctx context.Context, messages []Message, temperature float64) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// Embedder turns text into vectors for the document store.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider identifies an LLM provider.
type Provider string

// Supported providers.
const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// Config holds provider selection and connection settings.
type Config struct {
	Provider   Provider
	Model      string
	EmbedModel string
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the default configuration: a local Ollama endpoint.
func DefaultConfig() *Config {
	return &Config{
		Provider:   ProviderOllama,
		Model:      "qwen3-coder",
		EmbedModel: "nomic-embed-text",
		BaseURL:    "http://localhost:11434",
		Timeout:    300 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// NewClient creates an LLM client based on configuration.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config)
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderOllama, "":
		return NewOllamaClient(config), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}

// Generate is a convenience for completion-style calls: an optional system
// prompt followed by a single user prompt.
func Generate(ctx context.Context, client Client, systemPrompt, prompt string, temperature float64) (string, error) {
	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})
	return client.Chat(ctx, messages, temperature)
}

// EstimateTokens approximates the token count of text. One token is
// roughly 4 characters of English.
func EstimateTokens(text string) int {
	return len(text) / 4
}
