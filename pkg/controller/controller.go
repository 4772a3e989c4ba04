package controller

import (
	"context"
)

// DefaultPageSize is the page size used unless WithPageSize overrides it.
const DefaultPageSize = 20

// PageRequest is one page fetch issued by a Controller.
type PageRequest struct {
	Query    string
	Page     int
	PageSize int
	// LoadMore is false for a fresh search. It selects append (true) or
	// replace (false) rendering when the response is completed.
	LoadMore bool
	// Token increases with every request issued by the same Controller.
	Token uint64
}

// Response is the outcome of fetching a PageRequest: either Results or Err.
type Response struct {
	Request PageRequest
	Results []string
	Err     error
}

// Fetcher retrieves one page of results from the query endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, req PageRequest) ([]string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req PageRequest) ([]string, error)

func (f FetcherFunc) Fetch(ctx context.Context, req PageRequest) ([]string, error) {
	return f(ctx, req)
}

// View is the result list a Controller renders into.
type View interface {
	// Render adds one row per result, in order. With appendRows false the
	// existing rows are discarded first.
	Render(results []string, appendRows bool)
	// Clear removes every row.
	Clear()
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize sets the page size. Values below 1 are ignored.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithStaleDiscard makes Complete drop responses to superseded requests, so
// only the most recently issued request can render.
func WithStaleDiscard() Option {
	return func(c *Controller) {
		c.discardStale = true
	}
}

// Controller owns the pagination state of one search UI instance.
type Controller struct {
	fetcher      Fetcher
	view         View
	currentPage  int
	pageSize     int
	lastToken    uint64
	discardStale bool
}

// New returns a Controller on page 0.
func New(fetcher Fetcher, view View, opts ...Option) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		view:     view,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentPage returns the page the next load-more request will ask for.
func (c *Controller) CurrentPage() int {
	return c.currentPage
}

// PageSize returns the fixed page size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// Begin starts a search. A fresh search (loadMore false) resets the page to 0
// and clears the view before the request is built.
func (c *Controller) Begin(query string, loadMore bool) PageRequest {
	if !loadMore {
		c.currentPage = 0
		c.view.Clear()
	}
	c.lastToken++
	return PageRequest{
		Query:    query,
		Page:     c.currentPage,
		PageSize: c.pageSize,
		LoadMore: loadMore,
		Token:    c.lastToken,
	}
}

// Fetch runs req through the Fetcher. It reads no mutable controller state
// and may be called from any goroutine.
func (c *Controller) Fetch(ctx context.Context, req PageRequest) Response {
	results, err := c.fetcher.Fetch(ctx, req)
	return Response{Request: req, Results: results, Err: err}
}

// Complete applies a response: render it (appending for load-more requests)
// and advance the page when it was non-empty. It reports whether the response
// was applied; failed and discarded responses change nothing.
func (c *Controller) Complete(resp Response) bool {
	if resp.Err != nil {
		return false
	}
	if c.discardStale && resp.Request.Token != c.lastToken {
		return false
	}

	c.view.Render(resp.Results, resp.Request.LoadMore)
	if len(resp.Results) > 0 {
		c.currentPage++
	}
	return true
}

// Search performs Begin, Fetch and Complete in sequence. The fetch error, if
// any, is returned after the state has been left untouched.
func (c *Controller) Search(ctx context.Context, query string, loadMore bool) error {
	resp := c.Fetch(ctx, c.Begin(query, loadMore))
	c.Complete(resp)
	return resp.Err
}
