package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Micos01/analise-locacao/internal/common"
	"github.com/Micos01/analise-locacao/internal/decision"
	"github.com/Micos01/analise-locacao/internal/llm"
	"github.com/Micos01/analise-locacao/internal/model"
	"github.com/Micos01/analise-locacao/internal/normalize"
	"github.com/Micos01/analise-locacao/internal/service"
)

// Config holds configuration options for the audit orchestrator.
type Config struct {
	// BatchSize and Cooldown pace the external extraction calls.
	BatchSize int
	Cooldown  time.Duration
	// Retry applies to each extraction call.
	Retry service.RetryOptions
	// Workers caps concurrent document processing. Values below 1 mean
	// sequential.
	Workers int
	// ShowProgress renders a terminal progress bar during the run.
	ShowProgress bool
}

// DefaultConfig returns the default orchestrator configuration: four calls
// per batch, a sixty second cooldown and sequential processing.
func DefaultConfig() Config {
	return Config{
		BatchSize: 4,
		Cooldown:  60 * time.Second,
		Workers:   1,
	}
}

// Stats summarizes one audit run.
type Stats struct {
	Documents int // documents listed
	Resumed   int // documents served from persisted raw payloads
	CallsMade int // external extraction calls performed
	Audited   int // audit records written
	Failed    int // documents that failed at any stage
}

// Orchestrator runs the audit batch end to end.
type Orchestrator struct {
	store     service.ArtifactStore
	source    service.DocumentSource
	extractor service.Extractor
	engine    *decision.Engine
	pacer     *Pacer
	config    Config
	logger    *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates an orchestrator with the given dependencies.
func New(store service.ArtifactStore, source service.DocumentSource, extractor service.Extractor, eng *decision.Engine, config Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:     store,
		source:    source,
		extractor: extractor,
		engine:    eng,
		pacer:     NewPacer(config.BatchSize, config.Cooldown),
		config:    config,
		logger:    logger,
	}
}

// Run audits every document in the source. Individual document failures
// are recorded and skipped; the run only aborts on context cancellation
// or when the run itself cannot be accounted.
func (o *Orchestrator) Run(ctx context.Context) (Stats, error) {
	docs, err := o.source.List(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list documents: %w", err)
	}

	o.mu.Lock()
	o.stats = Stats{Documents: len(docs)}
	o.mu.Unlock()

	if len(docs) == 0 {
		o.logger.Info("no documents to audit")
		return o.snapshot(), nil
	}

	runID, err := o.store.StartRun(ctx, len(docs))
	if err != nil {
		return Stats{}, fmt.Errorf("failed to start run: %w", err)
	}

	o.logger.Info("starting audit run",
		slog.String("run_id", runID),
		slog.Int("documents", len(docs)),
		slog.String("method", o.extractor.Method()))

	bar := o.newProgressBar(len(docs))

	g, gctx := errgroup.WithContext(ctx)
	workers := o.config.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o.processDocument(gctx, doc)
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	runErr := g.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	stats := o.snapshot()

	// Account the run even when canceled; partial progress is real.
	finishCtx := ctx
	if finishCtx.Err() != nil {
		var cancel context.CancelFunc
		finishCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	if err := o.store.FinishRun(finishCtx, runID, stats.CallsMade, stats.Failed); err != nil {
		o.logger.Error("failed to finish run accounting", slog.String("error", err.Error()))
	}

	o.logger.Info("audit run complete",
		slog.String("run_id", runID),
		slog.Int("audited", stats.Audited),
		slog.Int("resumed", stats.Resumed),
		slog.Int("calls_made", stats.CallsMade),
		slog.Int("failed", stats.Failed))

	return stats, runErr
}

// processDocument takes one document through resume check, extraction,
// parsing, normalization, decision and persistence. Failures are recorded
// per stage and never abort the batch.
func (o *Orchestrator) processDocument(ctx context.Context, doc model.Document) {
	raw, ok := o.obtainRaw(ctx, doc)
	if !ok {
		return
	}

	facts, err := llm.ParseFacts(raw.Response)
	if err != nil {
		o.fail(ctx, doc.ID, "parse", err)
		return
	}

	if normalize.RecoverProofDate(&facts) {
		o.logger.Info("recovered proof date from evidence text",
			slog.String("document", doc.Name))
	}

	dec := o.engine.Decide(facts)

	rec := &model.AuditRecord{
		DecidedAt: time.Now(),
		Document:  doc,
		Facts:     facts,
		Decision:  dec,
		Method:    raw.Method,
	}
	if err := o.store.SaveAuditRecord(ctx, rec); err != nil {
		o.fail(ctx, doc.ID, "persist", err)
		return
	}

	o.mu.Lock()
	o.stats.Audited++
	o.mu.Unlock()

	o.logger.Debug("document audited",
		slog.String("document", doc.Name),
		slog.String("action", string(dec.Action)))
}

// obtainRaw returns the raw extraction payload for the document, reusing
// a persisted payload when one exists. A present artifact key means the
// external call already happened; re-running the batch never repeats it.
func (o *Orchestrator) obtainRaw(ctx context.Context, doc model.Document) (*model.RawExtraction, bool) {
	key := doc.ArtifactKey()

	has, err := o.store.HasRawExtraction(ctx, key)
	if err != nil {
		o.fail(ctx, doc.ID, "persist", err)
		return nil, false
	}
	if has {
		raw, err := o.store.GetRawExtraction(ctx, key)
		if err != nil {
			o.fail(ctx, doc.ID, "persist", err)
			return nil, false
		}
		o.mu.Lock()
		o.stats.Resumed++
		o.mu.Unlock()
		o.logger.Debug("resuming from persisted extraction", slog.String("key", key))
		return raw, true
	}

	// Cooldown pauses happen here, before the call, so a persisted payload
	// is never at risk while the pacer sleeps.
	if err := o.pacer.Wait(ctx); err != nil {
		return nil, false
	}

	var raw *model.RawExtraction
	err = common.WithRetry(ctx, func() error {
		var extractErr error
		raw, extractErr = o.extractor.Extract(ctx, doc)
		return extractErr
	}, o.config.Retry)

	o.mu.Lock()
	o.stats.CallsMade++
	o.mu.Unlock()

	if err != nil {
		o.fail(ctx, doc.ID, "extract", err)
		return nil, false
	}

	if err := o.store.SaveRawExtraction(ctx, raw); err != nil {
		o.fail(ctx, doc.ID, "persist", err)
		return nil, false
	}
	o.pacer.Success()
	return raw, true
}

func (o *Orchestrator) fail(ctx context.Context, documentID, stage string, err error) {
	o.mu.Lock()
	o.stats.Failed++
	o.mu.Unlock()

	o.logger.Error("document failed",
		slog.String("document", documentID),
		slog.String("stage", stage),
		slog.String("error", err.Error()))

	if recErr := o.store.RecordFailure(ctx, documentID, stage, err.Error()); recErr != nil {
		o.logger.Error("failed to record failure",
			slog.String("document", documentID),
			slog.String("error", recErr.Error()))
	}
}

func (o *Orchestrator) snapshot() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

func (o *Orchestrator) newProgressBar(total int) *progressbar.ProgressBar {
	if !o.config.ShowProgress {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Auditing contracts..."),
	)
}
