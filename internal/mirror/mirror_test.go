package mirror

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vistopia-archiver/internal/storage"
	"vistopia-archiver/internal/store"
)

type fakeFileStore struct {
	mu sync.Mutex

	pending    []store.FileRef
	pendingErr error
	mirrored   map[string]string
	failures   map[string]string
}

func newFakeFileStore(refs ...store.FileRef) *fakeFileStore {
	return &fakeFileStore{
		pending:  refs,
		mirrored: make(map[string]string),
		failures: make(map[string]string),
	}
}

func (f *fakeFileStore) PendingFileRefs(_ context.Context) ([]store.FileRef, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return f.pending, nil
}

func (f *fakeFileStore) MarkFileMirrored(_ context.Context, id, storagePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mirrored[id] = storagePath
	return nil
}

func (f *fakeFileStore) MarkFileFailed(_ context.Context, id, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = detail
	return nil
}

func mediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/media/a.jpg":
			_, _ = w.Write([]byte("jpeg-bytes"))
		case "/media/b.mp3":
			_, _ = w.Write([]byte("mp3-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestMirror(t *testing.T, files FileStore, blobs storage.Provider) *Mirror {
	t.Helper()
	return New(files, blobs, Config{BatchSize: 2, ScratchDir: t.TempDir()}, zap.NewNop())
}

func TestMirrorUploadsPendingFiles(t *testing.T) {
	t.Parallel()

	srv := mediaServer(t)
	files := newFakeFileStore(
		store.FileRef{ID: "id-1", URL: srv.URL + "/media/a.jpg"},
		store.FileRef{ID: "id-2", URL: srv.URL + "/media/b.mp3"},
	)
	blobs := storage.NewMemoryProvider()

	stats, err := newTestMirror(t, files, blobs).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Succeeded: 2, Failed: 0}, stats)
	assert.Equal(t, "media/a.jpg", files.mirrored["id-1"])
	assert.Equal(t, "media/b.mp3", files.mirrored["id-2"])

	data, ok := blobs.Object("media/a.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	assert.Equal(t, 2, blobs.Len())
}

func TestMirrorRecordsDownloadFailures(t *testing.T) {
	t.Parallel()

	srv := mediaServer(t)
	files := newFakeFileStore(
		store.FileRef{ID: "id-1", URL: srv.URL + "/media/a.jpg"},
		store.FileRef{ID: "id-2", URL: srv.URL + "/media/missing.png"},
	)
	blobs := storage.NewMemoryProvider()

	stats, err := newTestMirror(t, files, blobs).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Succeeded: 1, Failed: 1}, stats)
	assert.Equal(t, "media/a.jpg", files.mirrored["id-1"])
	assert.Contains(t, files.failures["id-2"], "404")
	assert.Equal(t, 1, blobs.Len())
}

func TestMirrorRecordsUploadFailures(t *testing.T) {
	t.Parallel()

	srv := mediaServer(t)
	files := newFakeFileStore(store.FileRef{ID: "id-1", URL: srv.URL + "/media/a.jpg"})

	blobs := new(storage.MockProvider)
	blobs.On("EnsureBucket", mock.Anything).Return(nil)
	blobs.On("PutFile", mock.Anything, "media/a.jpg", mock.AnythingOfType("string")).
		Return(errors.New("access denied"))

	stats, err := newTestMirror(t, files, blobs).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Succeeded: 0, Failed: 1}, stats)
	assert.Equal(t, "access denied", files.failures["id-1"])
	blobs.AssertExpectations(t)
}

func TestMirrorCleansScratchDir(t *testing.T) {
	t.Parallel()

	srv := mediaServer(t)
	files := newFakeFileStore(
		store.FileRef{ID: "id-1", URL: srv.URL + "/media/a.jpg"},
		store.FileRef{ID: "id-2", URL: srv.URL + "/media/missing.png"},
	)
	scratch := t.TempDir()

	m := New(files, storage.NewMemoryProvider(), Config{BatchSize: 2, ScratchDir: scratch}, zap.NewNop())
	_, err := m.Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch files must be removed on success and failure")
}

func TestMirrorAbortsWhenBucketUnavailable(t *testing.T) {
	t.Parallel()

	files := newFakeFileStore()
	blobs := new(storage.MockProvider)
	blobs.On("EnsureBucket", mock.Anything).Return(errors.New("connection refused"))

	_, err := newTestMirror(t, files, blobs).Run(context.Background())
	require.Error(t, err)
	blobs.AssertExpectations(t)
}

func TestMirrorAbortsWhenListingFails(t *testing.T) {
	t.Parallel()

	files := newFakeFileStore()
	files.pendingErr = errors.New("connection reset")

	_, err := newTestMirror(t, files, storage.NewMemoryProvider()).Run(context.Background())
	require.Error(t, err)
}
