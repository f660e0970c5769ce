package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Micos01/analise-locacao/internal/llm"
	"github.com/Micos01/analise-locacao/internal/model"
)

// TextConverter turns a document file into plain text or markdown.
type TextConverter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// TextExtractor converts a document to text and sends the text to the
// reasoning model. Cheaper than the vision pipeline but blind to seals
// and handwriting, so conversions frequently yield REVIEW statuses on
// scanned contracts.
type TextExtractor struct {
	converter TextConverter
	client    llm.Client
	logger    *slog.Logger
}

// NewTextExtractor creates a text pipeline extractor.
func NewTextExtractor(converter TextConverter, client llm.Client, logger *slog.Logger) *TextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextExtractor{converter: converter, client: client, logger: logger}
}

// Method identifies the extraction pipeline in persisted artifacts.
func (e *TextExtractor) Method() string { return "text" }

// Extract converts the document and performs the reasoning call.
func (e *TextExtractor) Extract(ctx context.Context, doc model.Document) (*model.RawExtraction, error) {
	text, err := e.converter.Convert(ctx, doc.Path)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("document %s converted to empty text", doc.Name)
	}

	e.logger.Debug("converted document",
		slog.String("document", doc.Name),
		slog.Int("chars", len(text)))

	response, err := e.client.ExtractFromText(ctx, doc.Name, text)
	if err != nil {
		return nil, err
	}

	return &model.RawExtraction{
		Timestamp:  time.Now(),
		Key:        doc.ArtifactKey(),
		DocumentID: doc.ID,
		Method:     e.Method(),
		Model:      e.client.Model(),
		Response:   response,
	}, nil
}
