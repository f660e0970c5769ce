// Package service defines the interfaces between the pipeline components.
package service

import (
	"context"
	"time"

	"github.com/Micos01/analise-locacao/internal/model"
)

// ArtifactStore is the persistence boundary for raw extraction payloads,
// final audit records and per-document failures. Raw payloads are keyed by
// model.Document.ArtifactKey; key existence is the resume signal for the
// batch orchestrator.
type ArtifactStore interface {
	// Raw extraction payloads
	HasRawExtraction(ctx context.Context, key string) (bool, error)
	SaveRawExtraction(ctx context.Context, raw *model.RawExtraction) error
	GetRawExtraction(ctx context.Context, key string) (*model.RawExtraction, error)

	// Audit records
	SaveAuditRecord(ctx context.Context, rec *model.AuditRecord) error
	ListAuditRecords(ctx context.Context) ([]model.AuditRecord, error)

	// Failure tracking
	RecordFailure(ctx context.Context, documentID, stage, message string) error
	ListFailures(ctx context.Context) ([]model.Failure, error)

	// Run accounting
	StartRun(ctx context.Context, documentsTotal int) (string, error)
	FinishRun(ctx context.Context, runID string, callsMade, failed int) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// DocumentSource yields the documents of one audit batch in a stable order.
type DocumentSource interface {
	List(ctx context.Context) ([]model.Document, error)
}

// Extractor performs the external extraction call for one document:
// rendering or text conversion plus the reasoning call. Implementations
// return the verbatim model response; parsing happens downstream.
type Extractor interface {
	Extract(ctx context.Context, doc model.Document) (*model.RawExtraction, error)
	Method() string
}

// ReportWriter exports the final audit records.
type ReportWriter interface {
	Write(ctx context.Context, records []model.AuditRecord) error
}

// PageCounter reports the number of pages in a document.
type PageCounter interface {
	CountPages(ctx context.Context, path string) (int, error)
}

// PageRenderer rasterizes selected document pages for the vision pipeline.
type PageRenderer interface {
	PageCounter
	RenderPages(ctx context.Context, path string, pages []int) ([][]byte, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
