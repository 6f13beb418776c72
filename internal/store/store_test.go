// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-dataset/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), types.StoreConfig{
		Driver: types.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strp(s string) *string { return &s }

func metadata(id, abstract string) *types.ArxivMetadata {
	return &types.ArxivMetadata{
		ID:         strp(id),
		Title:      strp("Title of " + id),
		Categories: strp("cs.LG stat.ML"),
		Abstract:   strp(abstract),
		Versions:   []types.ArxivVersion{{Version: "v1", Created: "Mon, 6 Jan 2020 10:00:00 GMT"}},
	}
}

func loadIDs(t *testing.T, s *Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		inserted, err := s.InsertMetadata(context.Background(), metadata(id, "abstract "+id))
		require.NoError(t, err)
		require.True(t, inserted)
	}
}

func TestInsertMetadata_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	loadIDs(t, s, "2001.00001")

	inserted, err := s.InsertMetadata(ctx, metadata("2001.00001", "changed"))
	require.NoError(t, err)
	assert.False(t, inserted)

	n, err := s.CountIdentifiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestInsertMetadata_MissingID(t *testing.T) {
	s := openTestStore(t)
	_, err := s.InsertMetadata(context.Background(), &types.ArxivMetadata{})
	assert.ErrorIs(t, err, types.ErrMalformedIdentifier)
}

func TestSelectIdentifiers_Pages(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	loadIDs(t, s, "2001.00003", "2001.00001", "2001.00002")

	var got []string
	for _, p := range types.Pages(3, 2) {
		ids, err := s.SelectIdentifiers(ctx, p)
		require.NoError(t, err)
		got = append(got, ids...)
	}
	assert.Equal(t, []string{"2001.00003", "2001.00001", "2001.00002"}, got)
}

func TestSampleIdentifiers_UnprocessedOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	loadIDs(t, s, "2001.00001", "2001.00002", "2001.00003")

	require.NoError(t, s.AppendStatus(ctx, types.StatusRecord{PaperID: "2001.00002", RunID: "r1", Code: types.KindNoKeywords, Message: "no keywords section"}))

	all, err := s.SampleIdentifiers(ctx, 10, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	fresh, err := s.SampleIdentifiers(ctx, 10, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2001.00001", "2001.00003"}, fresh)

	one, err := s.SampleIdentifiers(ctx, 1, true)
	require.NoError(t, err)
	assert.Len(t, one, 1)
	assert.NotEqual(t, "2001.00002", one[0])
}

func TestUpsertContent_KeepsAbstract(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	loadIDs(t, s, "2001.00001", "2001.00002")

	err := s.WithinTx(ctx, func(q *Queries) error {
		if err := q.UpsertContent(ctx, &types.PaperContent{ID: "2001.00001", Keywords: []string{"graphs", "", "learning"}, Body: "1 Introduction\n\nBody"}); err != nil {
			return err
		}
		return q.AppendStatus(ctx, types.StatusRecord{PaperID: "2001.00001", RunID: "r1", Code: types.KindOK})
	})
	require.NoError(t, err)

	n, err := s.CountTrainingRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	records, err := s.SelectTrainingRecords(ctx, types.Page{Offset: 0, Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.TrainingRecord{
		ArxivID:  "2001.00001",
		Content:  "1 Introduction\n\nBody",
		Abstract: "abstract 2001.00001",
		Keywords: []string{"graphs", "", "learning"},
	}, records[0])
}

func TestAppendStatus_AppendsPerRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	loadIDs(t, s, "2001.00001")

	for _, rec := range []types.StatusRecord{
		{PaperID: "2001.00001", RunID: "r1", Code: types.KindHTTPStatus, Message: "unexpected http status 503"},
		{PaperID: "2001.00001", RunID: "r2", Code: types.KindOK},
	} {
		require.NoError(t, s.AppendStatus(ctx, rec))
	}

	counts, err := s.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[types.ErrorKind]uint64{types.KindHTTPStatus: 1, types.KindOK: 1}, counts)
}

func TestWithinTx_RollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	loadIDs(t, s, "2001.00001")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(q *Queries) error {
		require.NoError(t, q.AppendStatus(ctx, types.StatusRecord{PaperID: "2001.00001", RunID: "r1", Code: types.KindOK}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	counts, err := s.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestOpen_PostgresRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), types.StoreConfig{Driver: types.DriverPostgres})
	assert.Error(t, err)

	_, err = Open(context.Background(), types.StoreConfig{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported store driver")
}

func TestAppendStatus_DatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, types.DriverPostgres)
	mock.ExpectExec("INSERT INTO extraction_result").
		WithArgs("2001.00001", "r1", "OK", sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err = s.AppendStatus(context.Background(), types.StatusRecord{PaperID: "2001.00001", RunID: "r1", Code: types.KindOK})
	assert.ErrorIs(t, err, types.ErrDB)
	assert.Equal(t, types.KindDB, types.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, types.DriverPostgres)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO paper_data").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err = s.WithinTx(context.Background(), func(q *Queries) error {
		return q.UpsertContent(context.Background(), &types.PaperContent{ID: "2001.00001"})
	})
	assert.Equal(t, types.KindDB, types.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectIdentifiers_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, types.DriverPostgres)
	mock.ExpectQuery("SELECT id FROM arxiv_metadata").
		WithArgs(int64(10), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("2001.00001").RowError(0, errors.New("bad row")))

	_, err = s.SelectIdentifiers(context.Background(), types.Page{Limit: 10})
	assert.ErrorIs(t, err, types.ErrDB)
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM t WHERE a = ? AND b = ? LIMIT ?"
	assert.Equal(t, q, sqliteDialect.rebind(q))
	assert.Equal(t, "SELECT id FROM t WHERE a = $1 AND b = $2 LIMIT $3", postgresDialect.rebind(q))
}
