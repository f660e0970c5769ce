package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Micos01/analise-locacao/internal/llm"
	"github.com/Micos01/analise-locacao/internal/model"
	"github.com/Micos01/analise-locacao/internal/service"
)

// VisionExtractor rasterizes a sample of a document's pages and sends the
// images to the reasoning model. This is the primary pipeline for scanned
// contracts, where signatures and notary seals only exist as pixels.
type VisionExtractor struct {
	renderer service.PageRenderer
	client   llm.Client
	logger   *slog.Logger
}

// NewVisionExtractor creates a vision pipeline extractor.
func NewVisionExtractor(renderer service.PageRenderer, client llm.Client, logger *slog.Logger) *VisionExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisionExtractor{renderer: renderer, client: client, logger: logger}
}

// Method identifies the extraction pipeline in persisted artifacts.
func (e *VisionExtractor) Method() string { return "vision" }

// Extract renders the selected pages and performs the reasoning call. The
// verbatim model response is returned for persistence; parsing happens
// downstream so a bad response can still be stored and retried offline.
func (e *VisionExtractor) Extract(ctx context.Context, doc model.Document) (*model.RawExtraction, error) {
	total, err := e.renderer.CountPages(ctx, doc.Path)
	if err != nil {
		return nil, err
	}

	pages := SelectPages(total)
	if len(pages) == 0 {
		return nil, fmt.Errorf("document %s has no pages", doc.Name)
	}

	e.logger.Debug("rendering document",
		slog.String("document", doc.Name),
		slog.Int("total_pages", total),
		slog.Int("rendered_pages", len(pages)))

	images, err := e.renderer.RenderPages(ctx, doc.Path, pages)
	if err != nil {
		return nil, err
	}

	response, err := e.client.ExtractFromImages(ctx, doc.Name, images)
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
