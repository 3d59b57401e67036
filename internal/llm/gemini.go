package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, &ClientError{Provider: "gemini", Message: "API key is required"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, &ClientError{Provider: "gemini", Message: "failed to create client", Cause: err}
	}

	return &GeminiClient{client: client, model: config.Model}, nil
}

// Chat implements Client. Gemini has no multi-role chat request in this
// SDK surface, so the system message becomes a system instruction and the
// remaining messages are flattened into one prompt.
func (c *GeminiClient) Chat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(float32(temperature))

	var parts []string
	for _, m := range messages {
		if m.Role == RoleSystem {
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
			continue
		}
		parts = append(parts, m.Content)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(strings.Join(parts, "\n\n")))
	if err != nil {
		return "", &ClientError{Provider: "gemini", Message: "failed to generate content", Cause: err}
	}

	return extractGeminiText(resp)
}

// Close implements Client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &ClientError{Provider: "gemini", Message: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &ClientError{Provider: "gemini", Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", &ClientError{Provider: "gemini", Message: "no text parts in response"}
	}
	return strings.Join(parts, ""), nil
}
