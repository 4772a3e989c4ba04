package types

import "github.com/a-h/templ"

// PageData represents data passed to the results page.
type PageData struct {
	Title       string
	Query       string
	Rows        templ.Component
	RowCount    int
	CurrentPage int
	PageSize    int
	// NextPages is the pages value of the "load more" link.
	NextPages int
	// Exhausted is set once a load-more returned no rows.
	Exhausted bool
	Version   string
}
