package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// PartRecord is one article "part" document keyed by (article_id, part_id).
type PartRecord struct {
	ArticleID string
	PartID    string
	Payload   json.RawMessage
	FetchTime time.Time
}

// ArticleDoc is an unprocessed part row handed to media extraction.
type ArticleDoc struct {
	ArticleID string
	PartID    string
	Payload   json.RawMessage
}

// ArticleExists reports whether any part row exists for the article. This is
// the coarse already-synced check: it does not confirm all parts are present.
func (s *Store) ArticleExists(ctx context.Context, articleID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM article_parts WHERE article_id = $1)`
	var exists bool
	if err := s.pool.QueryRow(ctx, q, articleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check article %s: %w", articleID, err)
	}
	return exists, nil
}

// UpsertPart writes a part document, replacing payload and fetch time on
// conflict. The processed flags are left untouched on update.
func (s *Store) UpsertPart(ctx context.Context, rec PartRecord) error {
	const q = `
INSERT INTO article_parts (article_id, part_id, payload, fetch_time)
VALUES ($1, $2, $3, $4)
ON CONFLICT (article_id, part_id) DO UPDATE SET
	payload = EXCLUDED.payload,
	fetch_time = EXCLUDED.fetch_time`
	if rec.ArticleID == "" || rec.PartID == "" {
		return fmt.Errorf("article_id and part_id are required")
	}
	if _, err := s.pool.Exec(ctx, q, rec.ArticleID, rec.PartID, []byte(rec.Payload), rec.FetchTime); err != nil {
		return fmt.Errorf("upsert part %s/%s: %w", rec.ArticleID, rec.PartID, err)
	}
	return nil
}

// UnprocessedParts returns every part row not yet scanned by media extraction.
func (s *Store) UnprocessedParts(ctx context.Context) ([]ArticleDoc, error) {
	const q = `SELECT article_id, part_id, payload FROM article_parts WHERE NOT processed ORDER BY article_id, part_id`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select unprocessed parts: %w", err)
	}
	defer rows.Close()

	var docs []ArticleDoc
	for rows.Next() {
		var doc ArticleDoc
		var payload []byte
		if err := rows.Scan(&doc.ArticleID, &doc.PartID, &payload); err != nil {
			return nil, fmt.Errorf("scan unprocessed part: %w", err)
		}
		doc.Payload = payload
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unprocessed parts: %w", err)
	}
	return docs, nil
}

// MarkPartProcessed flags a part row as scanned by media extraction.
func (s *Store) MarkPartProcessed(ctx context.Context, articleID, partID string, at time.Time) error {
	const q = `UPDATE article_parts SET processed = TRUE, processed_at = $3 WHERE article_id = $1 AND part_id = $2`
	if _, err := s.pool.Exec(ctx, q, articleID, partID, at); err != nil {
		return fmt.Errorf("mark part %s/%s processed: %w", articleID, partID, err)
	}
	return nil
}
