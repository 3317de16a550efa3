package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
)

// Client talks to an Ollama-compatible completion backend over HTTP JSON
type Client struct {
	baseURL        string
	model          string
	embeddingModel string
	httpClient     *http.Client
	limiter        *rate.Limiter
	logger         arbor.ILogger
}

// NewClient creates a completion client from configuration
func NewClient(config *common.Config, logger arbor.ILogger) *Client {
	interval := config.OllamaRateLimit()
	return &Client{
		baseURL:        strings.TrimRight(config.Ollama.BaseURL, "/"),
		model:          config.Ollama.Model,
		embeddingModel: config.Ollama.EmbeddingModel,
		httpClient: &http.Client{
			Timeout: config.OllamaTimeout(),
		},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
	Stream      bool    `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Complete sends a prompt and returns the raw text completion
func (c *Client) Complete(ctx context.Context, prompt string, preset interfaces.CompletionPreset, maxTokens int) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &BackendError{Err: err}
	}

	reqBody := generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: preset.Temperature,
		TopP:        preset.TopP,
		MaxTokens:   maxTokens,
		Stream:      false,
	}

	start := time.Now()
	body, err := c.post(ctx, "/api/generate", reqBody)
	if err != nil {
		return "", err
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &BackendError{Err: fmt.Errorf("decoding generate response: %w", err)}
	}

	c.logger.Debug().
		Str("preset", preset.Name).
		Int("prompt_chars", len(prompt)).
		Int("response_chars", len(resp.Response)).
		Str("duration", time.Since(start).String()).
		Msg("Completion finished")

	return resp.Response, nil
}

// CompleteStructured completes and best-effort parses one JSON value from
// the response. Irreparable output yields an empty map, not an error.
func (c *Client) CompleteStructured(ctx context.Context, prompt string, preset interfaces.CompletionPreset, maxTokens int) (map[string]interface{}, error) {
	text, err := c.Complete(ctx, prompt, preset, maxTokens)
	if err != nil {
		return nil, err
	}

	parsed, ok := ParseStructured(text)
	if !ok {
		c.logger.Warn().Int("response_chars", len(text)).Msg("Model output contained no parseable JSON")
		return map[string]interface{}{}, nil
	}
	return parsed, nil
}

// Embed returns an embedding vector for the given text
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &BackendError{Err: err}
	}

	body, err := c.post(ctx, "/api/embeddings", embeddingRequest{
		Model:  c.embeddingModel,
		Prompt: text,
	})
	if err != nil {
		return nil, err
	}

	var resp embeddingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &BackendError{Err: fmt.Errorf("decoding embedding response: %w", err)}
	}
	return resp.Embedding, nil
}

// ListModels returns the names of models available on the backend
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, &BackendError{Err: err}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, &BackendError{StatusCode: httpResp.StatusCode, Err: fmt.Errorf("listing models")}
	}

	var resp tagsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &BackendError{Err: fmt.Errorf("decoding tags response: %w", err)}
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// post sends a JSON request and returns the raw response body
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &BackendError{Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, &BackendError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classifyTransportError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, 10*1024*1024))
	if err != nil {
		return nil, &BackendError{Err: fmt.Errorf("reading response: %w", err)}
	}

	switch {
	case httpResp.StatusCode == http.StatusNotFound:
		// Absent model. Fetch the available list so the caller can report it.
		available, listErr := c.ListModels(ctx)
		if listErr != nil {
			c.logger.Warn().Err(listErr).Msg("Failed to list models after 404")
		}
		return nil, &ModelNotFoundError{Model: c.model, Available: available}
	case httpResp.StatusCode != http.StatusOK:
		return nil, &BackendError{StatusCode: httpResp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(body)))}
	}

	return body, nil
}

// classifyTransportError maps transport failures onto the error taxonomy
func (c *Client) classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return &BackendError{Err: err}
}
