package llm

import (
	"context"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client using the official openai-go SDK. With a
// custom base URL it also serves OpenAI-compatible endpoints.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a client for OpenAI or a compatible endpoint.
func NewOpenAIClient(config *Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, &ClientError{Provider: "openai", Message: "API key is required"}
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  config.Model,
	}, nil
}

// Chat implements Client.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	var msgs []openai.ChatCompletionMessageParamUnion
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case RoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    msgs,
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", &ClientError{Provider: "openai", Message: "chat completion failed", Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ClientError{Provider: "openai", Message: "empty choices in response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// Close implements Client.
func (c *OpenAIClient) Close() error {
	return nil
}
