package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ContentRecord is one catalog entry as persisted by Catalog Sync.
type ContentRecord struct {
	ContentID         string
	ArticleUpdateTime string
	Payload           json.RawMessage
	FetchTime         time.Time
}

// ContentRef is the projection of a content row the article sync needs.
type ContentRef struct {
	ContentID         string
	ArticleUpdateTime string
}

// UpsertContent writes a catalog entry, replacing all fields on conflict.
// Later fetches always win over earlier stored data.
func (s *Store) UpsertContent(ctx context.Context, rec ContentRecord) error {
	const q = `
INSERT INTO contents (content_id, article_update_time, payload, fetch_time)
VALUES ($1, $2, $3, $4)
ON CONFLICT (content_id) DO UPDATE SET
	article_update_time = EXCLUDED.article_update_time,
	payload = EXCLUDED.payload,
	fetch_time = EXCLUDED.fetch_time`
	if rec.ContentID == "" {
		return fmt.Errorf("content_id is required")
	}
	if _, err := s.pool.Exec(ctx, q, rec.ContentID, rec.ArticleUpdateTime, []byte(rec.Payload), rec.FetchTime); err != nil {
		return fmt.Errorf("upsert content %s: %w", rec.ContentID, err)
	}
	return nil
}

// ContentRefs returns every content id with its remote-reported update time.
// Update-time coercion happens in Go, so the rows come back unfiltered.
func (s *Store) ContentRefs(ctx context.Context) ([]ContentRef, error) {
	const q = `SELECT content_id, article_update_time FROM contents ORDER BY content_id`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select content refs: %w", err)
	}
	defer rows.Close()

	var refs []ContentRef
	for rows.Next() {
		var ref ContentRef
		if err := rows.Scan(&ref.ContentID, &ref.ArticleUpdateTime); err != nil {
			return nil, fmt.Errorf("scan content ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content refs: %w", err)
	}
	return refs, nil
}

// ContentIDs returns every stored content id.
func (s *Store) ContentIDs(ctx context.Context) ([]string, error) {
	const q = `SELECT content_id FROM contents ORDER BY content_id`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select content ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan content id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content ids: %w", err)
	}
	return ids, nil
}
