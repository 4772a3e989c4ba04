// Package view holds the result lists a search controller renders into.
package view

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Row renders one result as a table row. The result is embedded verbatim:
// it is treated as markup, not escaped.
func Row(result string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<tr><td>"); err != nil {
			return err
		}
		if err := templ.Raw(result).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</td></tr>")
		return err
	})
}

// Table is an HTML table body, one row per result.
type Table struct {
	rows []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Render implements controller.View.
func (t *Table) Render(results []string, appendRows bool) {
	rows := RenderRows(results)
	if appendRows {
		t.rows = append(t.rows, rows...)
		return
	}
	t.rows = rows
}

// Clear implements controller.View.
func (t *Table) Clear() {
	t.rows = nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rendered row fragments.
func (t *Table) Rows() []string {
	return append([]string(nil), t.rows...)
}

// HTML returns the table body markup.
func (t *Table) HTML() string {
	return strings.Join(t.rows, "")
}

// Component writes the table body.
func (t *Table) Component() templ.Component {
	rows := t.Rows()
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, row := range rows {
			if _, err := io.WriteString(w, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// RenderRows renders results into row fragments, in order.
func RenderRows(results []string) []string {
	rows := make([]string, 0, len(results))
	var b strings.Builder
	for _, result := range results {
		b.Reset()
		// strings.Builder never fails.
		_ = Row(result).Render(context.Background(), &b)
		rows = append(rows, b.String())
	}
	return rows
}
