package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ShowRecord is one content-show detail document.
type ShowRecord struct {
	ContentID string
	Payload   json.RawMessage
	FetchTime time.Time
}

// UpsertContentShow writes a show-detail document, replacing it on conflict.
func (s *Store) UpsertContentShow(ctx context.Context, rec ShowRecord) error {
	const q = `
INSERT INTO content_shows (content_id, payload, fetch_time)
VALUES ($1, $2, $3)
ON CONFLICT (content_id) DO UPDATE SET
	payload = EXCLUDED.payload,
	fetch_time = EXCLUDED.fetch_time`
	if rec.ContentID == "" {
		return fmt.Errorf("content_id is required")
	}
	if _, err := s.pool.Exec(ctx, q, rec.ContentID, []byte(rec.Payload), rec.FetchTime); err != nil {
		return fmt.Errorf("upsert content show %s: %w", rec.ContentID, err)
	}
	return nil
}
