package querylog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "queries.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndCount(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, l.Record(ctx, Entry{Query: "love", PageSize: 20, Results: 20}))
	require.NoError(t, l.Record(ctx, Entry{Query: "love", Page: 1, PageSize: 20, Results: 3}))

	n, err = l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTopQueries(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	for _, e := range []Entry{
		{Query: "love"},
		{Query: "love", Page: 1},
		{Query: "love", Page: 2},
		{Query: "death"},
		{Query: "death"},
		{Query: "crown"},
		{Query: "ale"},
	} {
		require.NoError(t, l.Record(ctx, e))
	}

	top, err := l.TopQueries(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []QueryCount{
		{Query: "death", Count: 2},
		{Query: "ale", Count: 1},
		{Query: "crown", Count: 1},
	}, top)
}

func TestTopQueriesEmpty(t *testing.T) {
	top, err := openTestLog(t).TopQueries(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "queries.db")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, Entry{Query: "tempest"}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()

	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
