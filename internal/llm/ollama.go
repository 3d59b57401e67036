package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// OllamaClient talks to a local Ollama server over its HTTP API. It also
// implements Embedder via the /api/embed endpoint.
type OllamaClient struct {
	config     *Config
	httpClient *http.Client
}

// NewOllamaClient creates a client for an Ollama endpoint.
func NewOllamaClient(config *Config) *OllamaClient {
	if config == nil {
		config = DefaultConfig()
	}
	return &OllamaClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Chat implements Client. Transport and timeout failures are retried with
// exponential backoff up to the configured budget; HTTP-status failures
// (404 model-not-found included) are surfaced immediately.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message, temperature float64) (string, error) {
	payload := ollamaChatRequest{
		Model:    c.config.Model,
		Messages: messages,
		Stream:   false,
		Options:  map[string]any{"temperature": temperature},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &ClientError{Provider: "ollama", Message: "failed to encode chat request", Cause: err}
	}

	var respBody []byte
	if respBody, err = c.post(ctx, "/api/chat", body); err != nil {
		return "", err
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &ClientError{Provider: "ollama", Message: "failed to decode chat response", Cause: err}
	}
	return parsed.Message.Content, nil
}

// Embed implements Embedder.
func (c *OllamaClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	payload := ollamaEmbedRequest{
		Model: c.config.EmbedModel,
		Input: texts,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ClientError{Provider: "ollama", Message: "failed to encode embed request", Cause: err}
	}

	respBody, err := c.post(ctx, "/api/embed", body)
	if err != nil {
		return nil, err
	}

	var parsed ollamaEmbedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ClientError{Provider: "ollama", Message: "failed to decode embed response", Cause: err}
	}
	if len(parsed.Embeddings) != len(texts) {
		return nil, &ClientError{
			Provider: "ollama",
			Message:  fmt.Sprintf("embed returned %d vectors for %d inputs", len(parsed.Embeddings), len(texts)),
		}
	}
	return parsed.Embeddings, nil
}

// Close implements Client. The HTTP client holds no resources to release.
func (c *OllamaClient) Close() error {
	return nil
}

// post executes one endpoint call under the retry policy. The fortify
// retrier re-runs the closure on any returned error, so permanent failures
// (missing model, non-2xx statuses) are captured outside the closure and
// reported without consuming retry budget.
func (c *OllamaClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	r := retry.New[[]byte](retry.Config{
		MaxAttempts:   c.config.MaxRetries,
		InitialDelay:  c.retryDelay(),
		BackoffPolicy: retry.BackoffExponential,
	})

	var permanent error
	result, err := r.Do(ctx, func(ctx context.Context) ([]byte, error) {
		data, reqErr := c.postOnce(ctx, path, body)
		if reqErr != nil {
			var clientErr *ClientError
			if errors.As(reqErr, &clientErr) && clientErr.Transient() {
				return nil, reqErr
			}
			permanent = reqErr
			return nil, nil
		}
		return data, nil
	})
	if permanent != nil {
		return nil, permanent
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *OllamaClient) postOnce(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Provider: "ollama", Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ClientError{Provider: "ollama", Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Provider: "ollama", Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &ModelNotFoundError{Model: c.config.Model}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Provider:   "ollama",
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	return respBody, nil
}

func (c *OllamaClient) retryDelay() time.Duration {
	if c.config.RetryDelay > 0 {
		return c.config.RetryDelay
	}
	return time.Second
}
