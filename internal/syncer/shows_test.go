package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShowSyncFetchesEveryContent(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	st := newFakeStore()
	storedContent(st, "c1", "2024-01-01 00:00:00")
	storedContent(st, "c2", "2024-02-01 00:00:00")
	api.shows["c1"] = json.RawMessage(`{"title":"one"}`)
	api.shows["c2"] = json.RawMessage(`{"title":"two"}`)

	s := NewShowSyncer(api, st, zap.NewNop())
	require.NoError(t, s.Run(context.Background()))

	assert.Len(t, st.shows, 2)
}

func TestShowSyncSkipsFetchFailures(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	st := newFakeStore()
	storedContent(st, "c1", "2024-01-01 00:00:00")
	storedContent(st, "c2", "2024-02-01 00:00:00")
	api.showErr["c1"] = errors.New("upstream 500")
	api.shows["c2"] = json.RawMessage(`{"title":"two"}`)

	s := NewShowSyncer(api, st, zap.NewNop())
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, st.shows, 1)
	assert.Equal(t, "c2", st.shows[0].ContentID)
}

func TestShowSyncAbortsOnStoreError(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	st := newFakeStore()
	storedContent(st, "c1", "2024-01-01 00:00:00")
	api.shows["c1"] = json.RawMessage(`{"title":"one"}`)
	st.showUpsertErr = errors.New("connection reset")

	s := NewShowSyncer(api, st, zap.NewNop())
	require.Error(t, s.Run(context.Background()))
}

func TestShowSyncStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	st := newFakeStore()
	storedContent(st, "c1", "2024-01-01 00:00:00")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewShowSyncer(api, st, zap.NewNop())
	err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, st.shows)
}
