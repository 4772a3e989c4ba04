// Package search turns query endpoint parameters into paginated corpus
// lookups.
//
// # Overview
//
// The HTTP API and the websocket sessions both go through a Service, so the
// two share defaults, limits and query logging:
//
//	service := search.NewService(store, search.WithRecorder(queryLog))
//	params := search.ParseSearchParams(r.URL.Query())
//	results, err := service.Search(ctx, params)
//
// # Parameters
//
//   - q: the raw query. Required; an empty query yields ErrMissingQuery.
//   - page: 0-based page number, default 0.
//   - pageSize: results per page, default 20, capped at the service maximum.
//
// Unparsable page and pageSize values fall back to the defaults instead of
// failing the request.
//
// # Results
//
// Results are context snippets in corpus order. A page past the last match is
// an empty, non-nil slice, which clients read as "no more results".
//
// # In-process clients
//
// Service.Fetcher adapts the service to controller.Fetcher so a search
// controller can run inside the server without an HTTP round trip.
package search
