package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Micos01/analise-locacao/internal/common"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterClient implements the Client interface for the OpenRouter
// chat-completions API (OpenAI wire format).
type openRouterClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

// newOpenRouterClient creates a new OpenRouter API client.
func newOpenRouterClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "google/gemini-2.0-flash-001"
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1500
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &openRouterClient{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

func (c *openRouterClient) Model() string { return c.model }

// chatResponse mirrors the slice of the chat-completions response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractFromImages sends rendered page images as data URLs.
func (c *openRouterClient) ExtractFromImages(ctx context.Context, docName string, images [][]byte) (string, error) {
	if len(images) == 0 {
		return "", fmt.Errorf("no page images to send")
	}

	content := []map[string]any{
		{"type": "text", "text": imageUserPrompt(docName)},
	}
	for _, img := range images {
		content = append(content, map[string]any{
			"type": "image_url",
			"image_url": map[string]string{
				"url": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img),
			},
		})
	}

	return c.complete(ctx, content)
}

// ExtractFromText sends converted document text.
func (c *openRouterClient) ExtractFromText(ctx context.Context, docName string, text string) (string, error) {
	content := []map[string]any{
		{"type": "text", "text": textUserPrompt(docName, text)},
	}
	return c.complete(ctx, content)
}

func (c *openRouterClient) complete(ctx context.Context, userContent []map[string]any) (string, error) {
	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]any{
			{"role": "system", "content": extractionSystemPrompt},
			{"role": "user", "content": userContent},
		},
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &common.RetryableError{
			Err:       fmt.Errorf("request failed: %w", err),
			Retryable: true,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &common.RetryableError{Err: fmt.Errorf("%w: openrouter: %s", common.ErrRateLimit, string(body)), Retryable: true}
	case resp.StatusCode >= 500:
		return "", &common.RetryableError{Err: fmt.Errorf("openrouter server error (status %d): %s", resp.StatusCode, string(body)), Retryable: true}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("openrouter API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content in response")
	}

	return response.Choices[0].Message.Content, nil
}
