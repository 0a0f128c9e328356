// Package ollama is the HTTP client for the local Ollama text-generation
// endpoint. Only the non-streaming generate and tag-listing calls are used.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"codechat/internal/apperrors"
)

const (
	// Fixed sampling configuration for every generation call.
	temperature = 0.7
	topP        = 0.9

	// DefaultTimeout bounds a generation request so a hung upstream cannot
	// hold a chat request open indefinitely.
	DefaultTimeout = 120 * time.Second
)

// Client handles communication with the Ollama API.
type Client struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// NewClient creates a client for the Ollama instance at baseURL. A zero
// timeout falls back to DefaultTimeout.
func NewClient(baseURL, defaultModel string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:      baseURL,
		defaultModel: defaultModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DefaultModel returns the model used when a request names none.
func (c *Client) DefaultModel() string {
	return c.defaultModel
}

// BaseURL returns the configured Ollama endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Options carries the sampling parameters sent with each generation.
type Options struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// GenerateRequest is the request body for /api/generate.
type GenerateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

// GenerateResponse is the single JSON response of a non-streaming generation.
type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// ModelInfo describes one locally available model.
type ModelInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
}

// tagsResponse is the response body of /api/tags.
type tagsResponse struct {
	Models []ModelInfo `json:"models"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// Generate sends the assembled prompt and returns the complete response.
// Streaming is disabled; the sampling configuration is fixed.
func (c *Client) Generate(ctx context.Context, model, prompt string) (*GenerateResponse, error) {
	if model == "" {
		model = c.defaultModel
	}

	reqBody := GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: Options{
			Temperature: temperature,
			TopP:        topP,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.Upstream("failed to marshal generate request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Upstream("failed to create generate request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("model endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var upstreamErr ollamaError
		if err := json.NewDecoder(resp.Body).Decode(&upstreamErr); err == nil && upstreamErr.Error != "" {
			return nil, apperrors.Upstream("generation failed: "+upstreamErr.Error, nil)
		}
		return nil, apperrors.Upstream("generation failed: "+resp.Status, nil)
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Upstream("failed to decode generate response", err)
	}

	return &result, nil
}

// ListModels retrieves all available models from the upstream /api/tags.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, apperrors.Upstream("failed to create tags request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Upstream("model endpoint unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Upstream("failed to list models: "+resp.Status, nil)
	}

	var result tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Upstream("failed to decode tags response", err)
	}

	return result.Models, nil
}
