package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/shakesearch/pkg/controller"
)

type pagedFetcher struct {
	pages    map[string][][]string
	requests []controller.PageRequest
	fail     bool
}

func (f *pagedFetcher) Fetch(_ context.Context, req controller.PageRequest) ([]string, error) {
	f.requests = append(f.requests, req)
	if f.fail {
		return nil, errors.New("unreachable")
	}
	pages := f.pages[req.Query]
	if req.Page >= len(pages) {
		return []string{}, nil
	}
	return pages[req.Page], nil
}

func typeQuery(m *Model, q string) {
	m.input.SetValue(q)
}

// press sends a key and runs the resulting fetch command, feeding its
// message back like the bubbletea runtime would.
func press(t *testing.T, m *Model, key tea.KeyType) {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: key})
	require.NotNil(t, cmd)
	msg := cmd()
	_, follow := m.Update(msg)
	assert.Nil(t, follow)
}

func TestSearchAndLoadMore(t *testing.T) {
	f := &pagedFetcher{pages: map[string][][]string{
		"cat": {{"cat1", "cat2"}, {"cat3"}},
		"dog": {{"dog1"}},
	}}
	m := New(context.Background(), f)

	typeQuery(m, "cat")
	press(t, m, tea.KeyEnter)
	assert.Equal(t, []string{"cat1", "cat2"}, m.Rows())
	assert.Equal(t, 1, m.CurrentPage())

	press(t, m, tea.KeyCtrlN)
	assert.Equal(t, []string{"cat1", "cat2", "cat3"}, m.Rows())
	assert.Equal(t, 2, m.CurrentPage())

	press(t, m, tea.KeyCtrlN)
	assert.Len(t, m.Rows(), 3)
	assert.Equal(t, 2, m.CurrentPage())

	typeQuery(m, "dog")
	press(t, m, tea.KeyEnter)
	assert.Equal(t, []string{"dog1"}, m.Rows())
	assert.Equal(t, 1, m.CurrentPage())

	require.Len(t, f.requests, 4)
	assert.Equal(t, 20, f.requests[0].PageSize)
}

func TestFreshSearchClearsBeforeResponse(t *testing.T) {
	f := &pagedFetcher{pages: map[string][][]string{"cat": {{"cat1"}}}}
	m := New(context.Background(), f)

	typeQuery(m, "cat")
	press(t, m, tea.KeyEnter)
	require.Len(t, m.Rows(), 1)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, m.Rows(), "rows are cleared as soon as the search is issued")
	assert.Equal(t, 0, m.CurrentPage())
}

func TestFetchErrorsAreIgnored(t *testing.T) {
	f := &pagedFetcher{pages: map[string][][]string{"cat": {{"cat1"}, {"cat2"}}}}
	m := New(context.Background(), f)

	typeQuery(m, "cat")
	press(t, m, tea.KeyEnter)

	f.fail = true
	press(t, m, tea.KeyCtrlN)
	assert.Equal(t, []string{"cat1"}, m.Rows())
	assert.Equal(t, 1, m.CurrentPage())
}

func TestQuitKeys(t *testing.T) {
	m := New(context.Background(), &pagedFetcher{})
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestTypingGoesToInput(t *testing.T) {
	m := New(context.Background(), &pagedFetcher{})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("lear")})
	assert.Equal(t, "lear", m.input.Value())
}

func TestViewShowsRowsAndPage(t *testing.T) {
	f := &pagedFetcher{pages: map[string][][]string{"cat": {{"the\ncat   sat"}}}}
	m := New(context.Background(), f, controller.WithPageSize(5))
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	typeQuery(m, "cat")
	press(t, m, tea.KeyEnter)

	out := m.View()
	assert.Contains(t, out, "the cat sat")
	assert.Contains(t, out, "page 1")
	assert.Contains(t, out, "1 rows")
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n b\t\tc ", 80))
	assert.Equal(t, "abc…", oneLine("abcdefgh", 4))
}
