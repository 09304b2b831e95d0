package syncer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vistopia-archiver/internal/batch"
	"vistopia-archiver/internal/metrics"
	"vistopia-archiver/internal/store"
	"vistopia-archiver/internal/vistopia"
)

// ArticleAPI is the slice of the remote API the article sync consumes.
type ArticleAPI interface {
	ArticleList(ctx context.Context, contentID string, count int) ([]vistopia.ArticleSummary, error)
	SectionDetail(ctx context.Context, articleID string) ([]vistopia.Part, error)
}

// ArticleStore is the persistence surface the article sync consumes.
type ArticleStore interface {
	ContentRefs(ctx context.Context) ([]store.ContentRef, error)
	ArticleExists(ctx context.Context, articleID string) (bool, error)
	UpsertPart(ctx context.Context, rec store.PartRecord) error
	Watermark(ctx context.Context, syncType string) (time.Time, error)
	SetWatermark(ctx context.Context, syncType string, at time.Time) error
}

// ArticleSyncer incrementally fetches articles for content items whose
// remote-reported update time passed the persisted watermark.
type ArticleSyncer struct {
	api       ArticleAPI
	store     ArticleStore
	batchSize int
	listCount int
	logger    *zap.Logger
	now       func() time.Time
}

// NewArticleSyncer constructs an ArticleSyncer.
func NewArticleSyncer(api ArticleAPI, st ArticleStore, batchSize, listCount int, logger *zap.Logger) *ArticleSyncer {
	if batchSize <= 0 {
		batchSize = 30
	}
	if listCount <= 0 {
		listCount = 1001
	}
	return &ArticleSyncer{
		api:       api,
		store:     st,
		batchSize: batchSize,
		listCount: listCount,
		logger:    logger,
		now:       time.Now,
	}
}

// updateTimeLayouts covers the formats observed in article_update_time.
var updateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006/01/02 15:04:05",
}

// coerceUpdateTime parses a remote update-time string leniently. A value that
// fits no known layout skips its row instead of failing the selection.
func coerceUpdateTime(s string) (time.Time, bool) {
	for _, layout := range updateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Run performs one full incremental pass. Individual article failures are
// logged and skipped; the watermark advances to the run-start timestamp only
// after every selected content item has been processed.
func (s *ArticleSyncer) Run(ctx context.Context) error {
	start := s.now()

	since, err := s.store.Watermark(ctx, store.WatermarkArticleUpdate)
	if err != nil {
		metrics.ObserveRun("articles", "failed")
		return err
	}
	s.logger.Info("last article update", zap.Time("watermark", since))

	refs, err := s.store.ContentRefs(ctx)
	if err != nil {
		metrics.ObserveRun("articles", "failed")
		return err
	}

	var due []store.ContentRef
	for _, ref := range refs {
		t, ok := coerceUpdateTime(ref.ArticleUpdateTime)
		if !ok {
			if ref.ArticleUpdateTime != "" {
				s.logger.Debug("unparseable article_update_time",
					zap.String("content_id", ref.ContentID),
					zap.String("value", ref.ArticleUpdateTime),
				)
			}
			continue
		}
		if t.After(since) {
			due = append(due, ref)
		}
	}
	s.logger.Info("content items need updating", zap.Int("count", len(due)))

	for _, ref := range due {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.syncContent(ctx, ref.ContentID); err != nil {
			// The item stays eligible next run: its article_update_time does
			// not change until the watermark passes it.
			s.logger.Error("content sync failed",
				zap.String("content_id", ref.ContentID),
				zap.Error(err),
			)
			metrics.ObserveItems("articles", "content_failed", 1)
		}
	}

	if err := s.store.SetWatermark(ctx, store.WatermarkArticleUpdate, start); err != nil {
		metrics.ObserveRun("articles", "failed")
		return err
	}
	metrics.ObserveRun("articles", "succeeded")
	s.logger.Info("article sync complete", zap.Time("watermark", start))
	return nil
}

// syncContent fetches the article list for one content item and syncs each
// article in concurrent batches.
func (s *ArticleSyncer) syncContent(ctx context.Context, contentID string) error {
	list, err := s.api.ArticleList(ctx, contentID, s.listCount)
	if err != nil {
		return fmt.Errorf("fetch article list for %s: %w", contentID, err)
	}
	s.logger.Info("found articles",
		zap.String("content_id", contentID),
		zap.Int("count", len(list)),
	)

	failed, err := batch.Run(ctx, list, s.batchSize, func(ctx context.Context, a vistopia.ArticleSummary) error {
		if err := s.syncArticle(ctx, a.ArticleID); err != nil {
			s.logger.Warn("article fetch failed",
				zap.String("article_id", a.ArticleID),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.ObserveItems("articles", "article_failed", failed)
	return nil
}

// syncArticle fetches and stores one article's parts, skipping entirely when
// any part row for the article already exists.
func (s *ArticleSyncer) syncArticle(ctx context.Context, articleID string) error {
	exists, err := s.store.ArticleExists(ctx, articleID)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug("article already in store, skipping", zap.String("article_id", articleID))
		return nil
	}

	parts, err := s.api.SectionDetail(ctx, articleID)
	if err != nil {
		return err
	}
	for _, part := range parts {
		rec := store.PartRecord{
			ArticleID: articleID,
			PartID:    part.PartID,
			Payload:   part.Raw,
			FetchTime: s.now(),
		}
		if err := s.store.UpsertPart(ctx, rec); err != nil {
			return err
		}
	}
	metrics.ObserveItems("articles", "synced", 1)
	return nil
}
