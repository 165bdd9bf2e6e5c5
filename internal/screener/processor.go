package screener

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/evidence-screener/internal/common"
	"github.com/joseph-ayodele/evidence-screener/internal/extract"
	"github.com/joseph-ayodele/evidence-screener/internal/llm"
	"github.com/joseph-ayodele/evidence-screener/internal/results"
	"github.com/joseph-ayodele/evidence-screener/internal/review"
)

// Document is one PDF queued for screening.
type Document struct {
	Name string
	Data []byte
}

// TextExtractor yields readable text from PDF bytes.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (extract.Result, error)
}

// Processor runs each document through extraction, model review, and
// validation, accumulating outcomes in the store. One document failing never
// stops the batch; the failure is recorded with the stage it died at.
type Processor struct {
	logger    *slog.Logger
	extractor TextExtractor
	reviewer  llm.Reviewer
	validator *review.Validator
	store     *results.Store
}

func NewProcessor(extractor TextExtractor, reviewer llm.Reviewer, validator *review.Validator, store *results.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		extractor: extractor,
		reviewer:  reviewer,
		validator: validator,
		store:     store,
	}
}

// ProcessDocument runs the full pipeline for one document. The returned error
// has already been recorded as a failure; callers only need it to decide
// whether to log extra context.
func (p *Processor) ProcessDocument(ctx context.Context, doc Document) error {
	start := time.Now()
	p.logger.Info("screener.document.start", "file", doc.Name, "bytes", len(doc.Data))

	res, err := p.extractor.Extract(ctx, doc.Name, doc.Data)
	if err != nil {
		return p.recordFailure(doc.Name, err)
	}
	p.logger.Info("screener.document.extracted",
		"file", doc.Name,
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
	)

	raw, err := p.reviewer.Review(ctx, llm.ReviewRequest{
		PaperText:  res.Text,
		SourceFile: doc.Name,
	})
	if err != nil {
		return p.recordFailure(doc.Name, err)
	}

	rec, err := p.validator.Validate(raw, doc.Name)
	if err != nil {
		return p.recordFailure(doc.Name, err)
	}

	p.store.Add(rec)
	p.logger.Info("screener.document.ok",
		"file", doc.Name,
		"decision", rec.Decision,
		"category", rec.Category,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ProcessBatch screens documents sequentially and returns the final tally.
func (p *Processor) ProcessBatch(ctx context.Context, docs []Document) (results.Summary, error) {
	p.logger.Info("screener.batch.start", "documents", len(docs))
	start := time.Now()

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return p.store.Summarize(), err
		}
		// per-document errors are already recorded; keep going
		_ = p.ProcessDocument(ctx, doc)
	}

	sum := p.store.Summarize()
	p.logger.Info("screener.batch.done",
		"total", sum.Total,
		"included", sum.Included,
		"excluded", sum.Excluded,
		"unrecognized", sum.Unrecognized,
		"failed", sum.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return sum, nil
}

func (p *Processor) recordFailure(name string, err error) error {
	stage := common.StageOf(err)
	p.logger.Error("screener.document.failed", "file", name, "stage", stage, "error", err)
	p.store.AddFailure(review.Failure{
		SourceFile: name,
		Stage:      stage,
		Message:    err.Error(),
		OccurredAt: time.Now().UTC(),
	})
	return err
}
