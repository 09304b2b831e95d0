package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleExists(t *testing.T) {
	t.Parallel()

	st, mock := newTestStore(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("a1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := st.ArticleExists(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPart(t *testing.T) {
	t.Parallel()

	st, mock := newTestStore(t)
	now := time.Unix(1700000000, 0).UTC()
	payload := json.RawMessage(`{"part_id":"p1"}`)

	mock.ExpectExec("INSERT INTO article_parts").
		WithArgs("a1", "p1", []byte(payload), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := st.UpsertPart(context.Background(), PartRecord{
		ArticleID: "a1",
		PartID:    "p1",
		Payload:   payload,
		FetchTime: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPartRequiresKeys(t *testing.T) {
	t.Parallel()

	st, _ := newTestStore(t)
	err := st.UpsertPart(context.Background(), PartRecord{ArticleID: "a1"})
	require.Error(t, err)
}

func TestUnprocessedParts(t *testing.T) {
	t.Parallel()

	st, mock := newTestStore(t)

	mock.ExpectQuery("SELECT article_id, part_id, payload FROM article_parts").
		WillReturnRows(pgxmock.NewRows([]string{"article_id", "part_id", "payload"}).
			AddRow("a1", "p1", []byte(`{"x":1}`)))

	docs, err := st.UnprocessedParts(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a1", docs[0].ArticleID)
	assert.Equal(t, "p1", docs[0].PartID)
	assert.JSONEq(t, `{"x":1}`, string(docs[0].Payload))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPartProcessed(t *testing.T) {
	t.Parallel()

	st, mock := newTestStore(t)
	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectExec("UPDATE article_parts SET processed").
		WithArgs("a1", "p1", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := st.MarkPartProcessed(context.Background(), "a1", "p1", now)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
