// Package llm provides the reasoning-call clients used to extract contract
// facts from rendered pages or converted text. It supports the Gemini and
// OpenRouter APIs and includes the tolerant parser that maps their
// best-effort JSON payloads onto typed contract facts.
package llm

import (
	"context"
	"time"
)

// Client defines the interface for extraction model providers.
type Client interface {
	// ExtractFromImages sends rendered page images plus the extraction
	// prompt and returns the verbatim model response.
	ExtractFromImages(ctx context.Context, docName string, images [][]byte) (string, error)
	// ExtractFromText sends converted document text plus the extraction
	// prompt and returns the verbatim model response.
	ExtractFromText(ctx context.Context, docName string, text string) (string, error)
	// Model returns the model identifier requests are sent to.
	Model() string
}

// Config holds configuration for an extraction client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string // override for tests; providers have sane defaults
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}
