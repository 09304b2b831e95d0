// Package extract scans stored article parts for embedded media URLs and
// records them as file references for the mirroring stage.
package extract

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vistopia-archiver/internal/batch"
	"vistopia-archiver/internal/media"
	"vistopia-archiver/internal/metrics"
	"vistopia-archiver/internal/store"
)

// RecordStore is the persistence surface the extraction stage consumes.
type RecordStore interface {
	UnprocessedParts(ctx context.Context) ([]store.ArticleDoc, error)
	InsertFileRefs(ctx context.Context, refs []store.FileRef) (int, error)
	MarkPartProcessed(ctx context.Context, articleID, partID string, at time.Time) error
}

// Processor drives media extraction over unprocessed article parts.
type Processor struct {
	store     RecordStore
	extractor *media.Extractor
	batchSize int
	logger    *zap.Logger
	now       func() time.Time
}

// New constructs a Processor.
func New(st RecordStore, extractor *media.Extractor, batchSize int, logger *zap.Logger) *Processor {
	if batchSize <= 0 {
		batchSize = 30
	}
	return &Processor{
		store:     st,
		extractor: extractor,
		batchSize: batchSize,
		logger:    logger,
		now:       time.Now,
	}
}

// Run scans every unprocessed part in concurrent batches. A part that fails
// stays unprocessed and is retried on the next run.
func (p *Processor) Run(ctx context.Context) error {
	docs, err := p.store.UnprocessedParts(ctx)
	if err != nil {
		metrics.ObserveRun("extract", "failed")
		return err
	}
	p.logger.Info("unprocessed records", zap.Int("count", len(docs)))

	failed, err := batch.Run(ctx, docs, p.batchSize, p.processDoc)
	if err != nil {
		metrics.ObserveRun("extract", "failed")
		return err
	}

	metrics.ObserveItems("extract", "processed", len(docs)-failed)
	metrics.ObserveItems("extract", "failed", failed)
	metrics.ObserveRun("extract", "succeeded")
	p.logger.Info("extraction complete",
		zap.Int("processed", len(docs)-failed),
		zap.Int("failed", failed),
	)
	return nil
}

// processDoc extracts media URLs from one part document, inserts new file
// references, and marks the part processed. The mark happens even when no
// URLs were found; it is withheld only when an insert fails so the record is
// revisited.
func (p *Processor) processDoc(ctx context.Context, doc store.ArticleDoc) error {
	refs := p.extractor.Extract(doc.Payload)
	p.logger.Debug("media urls found",
		zap.String("article_id", doc.ArticleID),
		zap.String("part_id", doc.PartID),
		zap.Int("count", len(refs)),
	)

	if len(refs) > 0 {
		rows := make([]store.FileRef, 0, len(refs))
		createdAt := p.now()
		for _, ref := range refs {
			rows = append(rows, store.FileRef{
				ID:        uuid.NewString(),
				URL:       ref.URL,
				MediaType: string(ref.Type),
				ArticleID: doc.ArticleID,
				CreatedAt: createdAt,
			})
		}
		inserted, err := p.store.InsertFileRefs(ctx, rows)
		if err != nil {
			p.logger.Error("insert file refs failed",
				zap.String("article_id", doc.ArticleID),
				zap.Error(err),
			)
			return err
		}
		if inserted < len(rows) {
			p.logger.Debug("skipped existing urls",
				zap.String("article_id", doc.ArticleID),
				zap.Int("skipped", len(rows)-inserted),
			)
		}
		metrics.ObserveItems("extract", "refs_inserted", inserted)
	}

	return p.store.MarkPartProcessed(ctx, doc.ArticleID, doc.PartID, p.now())
}
