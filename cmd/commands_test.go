package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/shakesearch/pkg/client"
	"github.com/rubiojr/shakesearch/pkg/controller"
	"github.com/rubiojr/shakesearch/pkg/querylog"
)

func TestSearchPagesOverHTTP(t *testing.T) {
	ts := setupTestWebServer(t, 2)
	cl := client.New(ts.URL, 5*time.Second)

	var out bytes.Buffer
	err := searchPages(context.Background(), &out, cl, "cat", 3, controller.WithPageSize(2))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "3 results")
	assert.Contains(t, text, "next page: 2")
}

func TestSearchPagesSurfacesErrors(t *testing.T) {
	failing := controller.FetcherFunc(func(ctx context.Context, req controller.PageRequest) ([]string, error) {
		return nil, errors.New("boom")
	})

	var out bytes.Buffer
	err := searchPages(context.Background(), &out, failing, "cat", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, out.String())
}

func TestShowStats(t *testing.T) {
	qlog, err := querylog.Open(filepath.Join(t.TempDir(), "queries.db"))
	require.NoError(t, err)
	defer qlog.Close()

	ctx := context.Background()
	var out bytes.Buffer
	require.NoError(t, showStats(ctx, &out, qlog, 5))
	assert.Contains(t, out.String(), "No searches recorded yet")

	for _, q := range []string{"cat", "cat", "dog"} {
		require.NoError(t, qlog.Record(ctx, querylog.Entry{Query: q, PageSize: 20}))
	}

	out.Reset()
	require.NoError(t, showStats(ctx, &out, qlog, 5))
	text := out.String()
	assert.Contains(t, text, "3")
	assert.Less(t, strings.Index(text, "cat"), strings.Index(text, "dog"))
}

func TestInitConfigRefusesOverwrite(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "shakesearch", "config.toml")

	require.NoError(t, initConfig(path, false))
	assert.Error(t, initConfig(path, false))
	assert.NoError(t, initConfig(path, true))
}
