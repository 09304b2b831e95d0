package store

import (
	"context"
	"fmt"
	"time"
)

// FileRef tracks a discovered media URL through its mirroring lifecycle.
// IsReal is tri-state: nil means never attempted, false is a recorded
// download failure, true means the bytes are in object storage.
type FileRef struct {
	ID        string
	URL       string
	MediaType string
	ArticleID string
	CreatedAt time.Time

	IsReal      *bool
	StoragePath *string
	Error       *string
}

// InsertFileRefs inserts the given references, silently skipping URLs that
// already exist. The UNIQUE constraint on url makes concurrent inserts of the
// same URL from different source records safe. Returns the number actually
// inserted.
func (s *Store) InsertFileRefs(ctx context.Context, refs []FileRef) (int, error) {
	const q = `
INSERT INTO file_refs (id, url, media_type, article_id, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (url) DO NOTHING`
	inserted := 0
	for _, ref := range refs {
		tag, err := s.pool.Exec(ctx, q, ref.ID, ref.URL, ref.MediaType, ref.ArticleID, ref.CreatedAt)
		if err != nil {
			return inserted, fmt.Errorf("insert file ref %s: %w", ref.URL, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// PendingFileRefs returns every reference not yet confirmed mirrored,
// including previously failed ones so they are retried on each run.
func (s *Store) PendingFileRefs(ctx context.Context) ([]FileRef, error) {
	const q = `
SELECT id, url, media_type, article_id, created_at
FROM file_refs
WHERE is_real IS DISTINCT FROM TRUE
ORDER BY created_at`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select pending file refs: %w", err)
	}
	defer rows.Close()

	var refs []FileRef
	for rows.Next() {
		var ref FileRef
		if err := rows.Scan(&ref.ID, &ref.URL, &ref.MediaType, &ref.ArticleID, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file refs: %w", err)
	}
	return refs, nil
}

// MarkFileMirrored records a successful mirror with its object-storage path.
func (s *Store) MarkFileMirrored(ctx context.Context, id, storagePath string) error {
	const q = `UPDATE file_refs SET is_real = TRUE, storage_path = $2, error = NULL WHERE id = $1`
	if _, err := s.pool.Exec(ctx, q, id, storagePath); err != nil {
		return fmt.Errorf("mark file %s mirrored: %w", id, err)
	}
	return nil
}

// MarkFileFailed records a mirroring failure with its error detail.
func (s *Store) MarkFileFailed(ctx context.Context, id, detail string) error {
	const q = `UPDATE file_refs SET is_real = FALSE, error = $2 WHERE id = $1`
	if _, err := s.pool.Exec(ctx, q, id, detail); err != nil {
		return fmt.Errorf("mark file %s failed: %w", id, err)
	}
	return nil
}
