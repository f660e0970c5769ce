package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Micos01/analise-locacao/internal/common"
)

const defaultLlamaParseBaseURL = "https://api.cloud.llamaindex.ai/api/parsing"

// LlamaParseConverter converts documents to markdown through the
// LlamaParse cloud API. Conversion is asynchronous on the server side:
// upload a file, poll the job, fetch the markdown result.
type LlamaParseConverter struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// LlamaParseOption customizes a LlamaParseConverter.
type LlamaParseOption func(*LlamaParseConverter)

// WithLlamaParseBaseURL overrides the API endpoint, mainly for tests.
func WithLlamaParseBaseURL(url string) LlamaParseOption {
	return func(c *LlamaParseConverter) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithPollInterval overrides how often job status is checked.
func WithPollInterval(d time.Duration) LlamaParseOption {
	return func(c *LlamaParseConverter) { c.pollInterval = d }
}

// NewLlamaParseConverter creates a converter with the given API key.
func NewLlamaParseConverter(apiKey string, opts ...LlamaParseOption) (*LlamaParseConverter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llamaparse API key is required")
	}

	c := &LlamaParseConverter{
		apiKey:       apiKey,
		baseURL:      defaultLlamaParseBaseURL,
		pollInterval: 2 * time.Second,
		pollTimeout:  5 * time.Minute,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type llamaParseJob struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Convert uploads the file, waits for the parsing job and returns the
// markdown result.
func (c *LlamaParseConverter) Convert(ctx context.Context, path string) (string, error) {
	jobID, err := c.upload(ctx, path)
	if err != nil {
		return "", err
	}
	if err := c.waitForJob(ctx, jobID); err != nil {
		return "", err
	}
	return c.fetchMarkdown(ctx, jobID)
}

func (c *LlamaParseConverter) upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var job llamaParseJob
	if err := c.do(req, &job); err != nil {
		return "", err
	}
	if job.ID == "" {
		return "", fmt.Errorf("%w: upload response without job id", common.ErrExtractionFailed)
	}
	return job.ID, nil
}

func (c *LlamaParseConverter) waitForJob(ctx context.Context, jobID string) error {
	deadline := time.Now().Add(c.pollTimeout)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/job/"+jobID, nil)
		if err != nil {
			return fmt.Errorf("creating status request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		var job llamaParseJob
		if err := c.do(req, &job); err != nil {
			return err
		}

		switch strings.ToUpper(job.Status) {
		case "SUCCESS":
			return nil
		case "ERROR", "CANCELED":
			return fmt.Errorf("%w: llamaparse job %s ended with status %s", common.ErrExtractionFailed, jobID, job.Status)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: llamaparse job %s still %s after %s", common.ErrExtractionFailed, jobID, job.Status, c.pollTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *LlamaParseConverter) fetchMarkdown(ctx context.Context, jobID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/job/"+jobID+"/result/markdown", nil)
	if err != nil {
		return "", fmt.Errorf("creating result request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var result struct {
		Markdown string `json:"markdown"`
	}
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	return result.Markdown, nil
}

func (c *LlamaParseConverter) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &common.RetryableError{Err: fmt.Errorf("llamaparse request: %w", err), Retryable: true}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading llamaparse response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &common.RetryableError{Err: fmt.Errorf("%w: llamaparse: %s", common.ErrRateLimit, strings.TrimSpace(string(data))), Retryable: true}
	case resp.StatusCode >= 500:
		return &common.RetryableError{Err: fmt.Errorf("llamaparse server error %d: %s", resp.StatusCode, strings.TrimSpace(string(data))), Retryable: true}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: llamaparse returned %d: %s", common.ErrExtractionFailed, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding llamaparse response: %v", common.ErrMalformedResponse, err)
	}
	return nil
}
