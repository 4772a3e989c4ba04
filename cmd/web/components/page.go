// Package components renders the server side results page used when the
// browser has JavaScript disabled.
package components

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/rubiojr/shakesearch/cmd/web/components/types"
)

// Results renders a full results page. The rows component is written as-is.
func Results(data types.PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		query := templ.EscapeString(data.Query)

		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body>
  <h1>ShakeSearch</h1>
  <form id="form" action="/" method="get">
    <input type="text" id="query" name="query" value="%s">
    <button type="submit">Search</button>
  </form>
  <table id="table">
    <tbody id="table-body">`, templ.EscapeString(data.Title), query); err != nil {
			return err
		}

		if data.Rows != nil {
			if err := data.Rows.Render(ctx, w); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "</tbody>\n  </table>\n"); err != nil {
			return err
		}

		if !data.Exhausted && data.RowCount > 0 {
			href := fmt.Sprintf("/?query=%s&pages=%d", url.QueryEscape(data.Query), data.NextPages)
			if _, err := fmt.Fprintf(w, "  <a id=\"load-more\" href=\"%s\">Load more</a>\n", templ.EscapeString(href)); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, "  <footer>%d rows · page %d · shakesearch %s</footer>\n</body>\n</html>\n",
			data.RowCount, data.CurrentPage, templ.EscapeString(data.Version))
		return err
	})
}
