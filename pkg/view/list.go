package view

// List is a plain text result list for terminal front ends.
type List struct {
	rows []string
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// Render implements controller.View.
func (l *List) Render(results []string, appendRows bool) {
	if !appendRows {
		l.rows = nil
	}
	l.rows = append(l.rows, results...)
}

// Clear implements controller.View.
func (l *List) Clear() {
	l.rows = nil
}

// Len returns the number of rows.
func (l *List) Len() int {
	return len(l.rows)
}

// Rows returns a copy of the rows.
func (l *List) Rows() []string {
	return append([]string(nil), l.rows...)
}
