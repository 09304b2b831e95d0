package syncer

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"vistopia-archiver/internal/metrics"
	"vistopia-archiver/internal/store"
)

// ShowAPI is the slice of the remote API the show sync consumes.
type ShowAPI interface {
	ContentShow(ctx context.Context, contentID string) (json.RawMessage, error)
}

// ShowStore is the persistence surface the show sync consumes.
type ShowStore interface {
	ContentIDs(ctx context.Context) ([]string, error)
	UpsertContentShow(ctx context.Context, rec store.ShowRecord) error
}

// ShowSyncer fetches the show-detail document for every stored content item.
type ShowSyncer struct {
	api    ShowAPI
	store  ShowStore
	logger *zap.Logger
	now    func() time.Time
}

// NewShowSyncer constructs a ShowSyncer.
func NewShowSyncer(api ShowAPI, st ShowStore, logger *zap.Logger) *ShowSyncer {
	return &ShowSyncer{api: api, store: st, logger: logger, now: time.Now}
}

// Run fetches show details sequentially. Per-item failures are logged and
// skipped; only store-level failures abort the run.
func (s *ShowSyncer) Run(ctx context.Context) error {
	ids, err := s.store.ContentIDs(ctx)
	if err != nil {
		metrics.ObserveRun("shows", "failed")
		return err
	}
	s.logger.Info("content items to process", zap.Int("count", len(ids)))

	synced, failed := 0, 0
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.logger.Debug("processing content show",
			zap.Int("index", i+1),
			zap.Int("total", len(ids)),
			zap.String("content_id", id),
		)

		payload, err := s.api.ContentShow(ctx, id)
		if err != nil {
			s.logger.Warn("show fetch failed", zap.String("content_id", id), zap.Error(err))
			failed++
			continue
		}
		rec := store.ShowRecord{ContentID: id, Payload: payload, FetchTime: s.now()}
		if err := s.store.UpsertContentShow(ctx, rec); err != nil {
			metrics.ObserveRun("shows", "failed")
			return err
		}
		synced++
	}

	metrics.ObserveItems("shows", "synced", synced)
	metrics.ObserveItems("shows", "failed", failed)
	metrics.ObserveRun("shows", "succeeded")
	s.logger.Info("show sync complete", zap.Int("synced", synced), zap.Int("failed", failed))
	return nil
}
