package search

import (
	"context"
	"errors"
	"strconv"

	"github.com/rubiojr/shakesearch/pkg/controller"
	"github.com/rubiojr/shakesearch/pkg/log"
	"github.com/rubiojr/shakesearch/pkg/querylog"
)

var logger = log.ForService("search")

const (
	DefaultPageSize    = 20
	DefaultMaxPageSize = 100
)

// ErrMissingQuery is returned for searches without a query.
var ErrMissingQuery = errors.New("missing search query")

// SearchParams are the parameters of one page request.
type SearchParams struct {
	// Query is the raw search term.
	Query string

	// Page is the 0-based page number.
	Page int

	// PageSize is the maximum number of results on the page.
	PageSize int
}

// Index is the corpus being searched.
type Index interface {
	Search(query string, page, pageSize int) []string
}

// Recorder stores served queries.
type Recorder interface {
	Record(ctx context.Context, e querylog.Entry) error
}

// Service executes searches against an Index.
type Service struct {
	index       Index
	recorder    Recorder
	maxPageSize int
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder logs every served query to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithMaxPageSize caps the page size. Values below 1 are ignored.
func WithMaxPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

// NewService creates a search service over index.
func NewService(index Index, opts ...Option) *Service {
	s := &Service{
		index:       index,
		maxPageSize: DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxPageSize returns the page size cap.
func (s *Service) MaxPageSize() int {
	return s.maxPageSize
}

// Search returns one page of results. The slice is never nil.
func (s *Service) Search(ctx context.Context, params SearchParams) ([]string, error) {
	if params.Query == "" {
		return nil, ErrMissingQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := max(params.Page, 0)
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, s.maxPageSize)

	results := s.index.Search(params.Query, page, pageSize)
	if results == nil {
		results = []string{}
	}
	logger.Debugf("q=%q page=%d pageSize=%d -> %d results", params.Query, page, pageSize, len(results))

	if s.recorder != nil {
		entry := querylog.Entry{Query: params.Query, Page: page, PageSize: pageSize, Results: len(results)}
		if err := s.recorder.Record(ctx, entry); err != nil {
			logger.Warnf("recording query %q: %v", params.Query, err)
		}
	}

	return results, nil
}

// Fetcher adapts the service to controller.Fetcher.
func (s *Service) Fetcher() controller.Fetcher {
	return controller.FetcherFunc(func(ctx context.Context, req controller.PageRequest) ([]string, error) {
		return s.Search(ctx, SearchParams{Query: req.Query, Page: req.Page, PageSize: req.PageSize})
	})
}

// ParseSearchParams parses endpoint query parameters, applying defaults for
// missing or invalid page and pageSize values.
func ParseSearchParams(queryParams map[string][]string) SearchParams {
	params := SearchParams{
		Page:     0,
		PageSize: DefaultPageSize,
	}

	if q := queryParams["q"]; len(q) > 0 {
		params.Query = q[0]
	}

	if pageStr := queryParams["page"]; len(pageStr) > 0 && pageStr[0] != "" {
		if parsed, err := strconv.Atoi(pageStr[0]); err == nil && parsed >= 0 {
			params.Page = parsed
		}
	}

	if sizeStr := queryParams["pageSize"]; len(sizeStr) > 0 && sizeStr[0] != "" {
		if parsed, err := strconv.Atoi(sizeStr[0]); err == nil && parsed > 0 {
			params.PageSize = parsed
		}
	}

	return params
}
