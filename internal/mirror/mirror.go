// Package mirror moves referenced media assets from their remote URLs into
// object storage, tracking per-asset terminal state for retry.
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vistopia-archiver/internal/batch"
	"vistopia-archiver/internal/metrics"
	"vistopia-archiver/internal/storage"
	"vistopia-archiver/internal/store"
)

// FileStore is the persistence surface the mirroring stage consumes.
type FileStore interface {
	PendingFileRefs(ctx context.Context) ([]store.FileRef, error)
	MarkFileMirrored(ctx context.Context, id, storagePath string) error
	MarkFileFailed(ctx context.Context, id, detail string) error
}

// Config controls Mirror behavior.
type Config struct {
	BatchSize  int
	ScratchDir string
	Timeout    time.Duration
}

// Stats aggregates the outcome of one mirroring run.
type Stats struct {
	Succeeded int
	Failed    int
}

// Mirror downloads pending file references and uploads them to blob storage.
type Mirror struct {
	files      FileStore
	blobs      storage.Provider
	httpClient *http.Client
	scratchDir string
	batchSize  int
	logger     *zap.Logger
}

// New constructs a Mirror.
func New(files FileStore, blobs storage.Provider, cfg Config, logger *zap.Logger) *Mirror {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = filepath.Join(os.TempDir(), "vis-downloads")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Mirror{
		files:      files,
		blobs:      blobs,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		scratchDir: cfg.ScratchDir,
		batchSize:  cfg.BatchSize,
		logger:     logger,
	}
}

// Run mirrors every pending reference in concurrent batches. Per-item errors
// are recorded on the row and never abort the run.
func (m *Mirror) Run(ctx context.Context) (Stats, error) {
	if err := m.blobs.EnsureBucket(ctx); err != nil {
		metrics.ObserveRun("mirror", "failed")
		return Stats{}, fmt.Errorf("ensure bucket: %w", err)
	}
	if err := os.MkdirAll(m.scratchDir, 0o755); err != nil {
		metrics.ObserveRun("mirror", "failed")
		return Stats{}, fmt.Errorf("create scratch dir: %w", err)
	}

	refs, err := m.files.PendingFileRefs(ctx)
	if err != nil {
		metrics.ObserveRun("mirror", "failed")
		return Stats{}, err
	}
	m.logger.Info("files pending mirror", zap.Int("count", len(refs)))

	var succeeded atomic.Int64
	failed, err := batch.Run(ctx, refs, m.batchSize, func(ctx context.Context, ref store.FileRef) error {
		if err := m.mirrorOne(ctx, ref); err != nil {
			return err
		}
		succeeded.Add(1)
		return nil
	})
	if err != nil {
		return Stats{Succeeded: int(succeeded.Load()), Failed: failed}, err
	}

	stats := Stats{Succeeded: int(succeeded.Load()), Failed: failed}
	metrics.ObserveItems("mirror", "succeeded", stats.Succeeded)
	metrics.ObserveItems("mirror", "failed", stats.Failed)
	metrics.ObserveRun("mirror", "succeeded")
	m.logger.Info("mirroring complete",
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

// mirrorOne downloads one reference to scratch storage, uploads it under a
// key derived from the URL path, and records the terminal state on the row.
// The scratch file is removed on every path.
func (m *Mirror) mirrorOne(ctx context.Context, ref store.FileRef) error {
	u, err := url.Parse(ref.URL)
	if err != nil {
		m.recordFailure(ctx, ref, fmt.Sprintf("invalid url: %v", err))
		return err
	}

	// UUID scratch names: two concurrent items may share a URL basename.
	scratch := filepath.Join(m.scratchDir, uuid.NewString()+path.Ext(u.Path))
	defer os.Remove(scratch)

	if err := m.download(ctx, ref.URL, scratch); err != nil {
		m.logger.Warn("download failed", zap.String("url", ref.URL), zap.Error(err))
		m.recordFailure(ctx, ref, err.Error())
		return err
	}
	m.logger.Debug("downloaded", zap.String("url", ref.URL))

	// Object key is the URL path without the leading separator; the hostname
	// is never part of the key.
	key := strings.TrimPrefix(u.Path, "/")
	if err := m.blobs.PutFile(ctx, key, scratch); err != nil {
		m.logger.Warn("upload failed", zap.String("key", key), zap.Error(err))
		m.recordFailure(ctx, ref, err.Error())
		return err
	}

	if err := m.files.MarkFileMirrored(ctx, ref.ID, key); err != nil {
		m.logger.Error("mark mirrored failed", zap.String("id", ref.ID), zap.Error(err))
		return err
	}
	m.logger.Debug("uploaded", zap.String("key", key))
	return nil
}

func (m *Mirror) recordFailure(ctx context.Context, ref store.FileRef, detail string) {
	if err := m.files.MarkFileFailed(ctx, ref.ID, detail); err != nil {
		m.logger.Error("mark failed errored", zap.String("id", ref.ID), zap.Error(err))
	}
}

// download streams the URL's bytes into dest. Any non-2xx response is a hard
// failure for the item.
func (m *Mirror) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to download: %s", resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close scratch file: %w", err)
	}
	return nil
}
