package view

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableReplaceDiscardsPriorRows(t *testing.T) {
	table := NewTable()
	table.Render([]string{"a", "b"}, false)
	table.Render([]string{"c"}, false)

	assert.Equal(t, []string{"<tr><td>c</td></tr>"}, table.Rows())
}

func TestTableAppendKeepsOrder(t *testing.T) {
	table := NewTable()
	table.Render([]string{"cat1", "cat2"}, false)
	table.Render([]string{"cat3"}, true)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "<tr><td>cat1</td></tr><tr><td>cat2</td></tr><tr><td>cat3</td></tr>", table.HTML())
}

func TestTableDoesNotEscape(t *testing.T) {
	raw := `<b>bold</b> & "quoted" <script>x()</script>`
	table := NewTable()
	table.Render([]string{raw}, false)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, "<tr><td>"+raw+"</td></tr>", table.Rows()[0])
}

func TestTableClear(t *testing.T) {
	table := NewTable()
	table.Render([]string{"x", "y"}, false)
	table.Clear()

	assert.Equal(t, 0, table.Len())
	assert.Equal(t, "", table.HTML())
}

func TestTableEmptyRender(t *testing.T) {
	table := NewTable()
	table.Render([]string{"x"}, false)

	table.Render([]string{}, true)
	assert.Equal(t, 1, table.Len())

	table.Render(nil, false)
	assert.Equal(t, 0, table.Len())
}

func TestTableComponent(t *testing.T) {
	table := NewTable()
	table.Render([]string{"one", "two"}, false)

	var b strings.Builder
	require.NoError(t, table.Component().Render(context.Background(), &b))
	assert.Equal(t, table.HTML(), b.String())
}

func TestList(t *testing.T) {
	list := NewList()
	list.Render([]string{"a", "<i>b</i>"}, false)
	list.Render([]string{"c"}, true)
	assert.Equal(t, []string{"a", "<i>b</i>", "c"}, list.Rows())

	list.Render([]string{"d"}, false)
	assert.Equal(t, []string{"d"}, list.Rows())

	list.Clear()
	assert.Equal(t, 0, list.Len())
}
