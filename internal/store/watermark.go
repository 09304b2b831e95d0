package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// WatermarkArticleUpdate is the sync type for the incremental article sync.
const WatermarkArticleUpdate = "article_update"

// watermarkEpoch is returned when no watermark row exists yet, far enough in
// the past that every stored content item counts as updated.
var watermarkEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Watermark returns the persisted boundary for syncType, or the epoch default
// when none has been recorded.
func (s *Store) Watermark(ctx context.Context, syncType string) (time.Time, error) {
	const q = `SELECT last_update FROM sync_watermarks WHERE sync_type = $1`
	var last time.Time
	err := s.pool.QueryRow(ctx, q, syncType).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return watermarkEpoch, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read watermark %s: %w", syncType, err)
	}
	return last, nil
}

// SetWatermark advances the boundary for syncType.
func (s *Store) SetWatermark(ctx context.Context, syncType string, at time.Time) error {
	const q = `
INSERT INTO sync_watermarks (sync_type, last_update)
VALUES ($1, $2)
ON CONFLICT (sync_type) DO UPDATE SET last_update = EXCLUDED.last_update`
	if _, err := s.pool.Exec(ctx, q, syncType, at); err != nil {
		return fmt.Errorf("set watermark %s: %w", syncType, err)
	}
	return nil
}
