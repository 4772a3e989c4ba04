// Package controller implements the search controller: the pagination state
// machine that turns "fresh search" and "load more" events into page requests
// and reconciles the responses with a result view.
//
// # State
//
// A Controller holds the current page (0 after construction and after every
// fresh search) and a page size fixed for its lifetime (20 by default). The
// current page counts the non-empty pages received since the last reset:
//
//	fresh search            -> 0, view cleared before the request is issued
//	non-empty page received -> current + 1, whatever the page length
//	empty page received     -> unchanged (the "no more results" signal)
//
// # Asynchronous use
//
// A search is split in three steps so that front ends with their own event
// loop can run the network call elsewhere:
//
//	req := c.Begin(query, loadMore)     // on the loop: reset, build request
//	resp := c.Fetch(ctx, req)           // anywhere: no controller state touched
//	c.Complete(resp)                    // back on the loop: render, advance
//
// Responses are completed in whatever order they arrive. Two overlapping
// searches can therefore render out of order, and a response from before a
// reset can land after it. That race is kept on purpose. WithStaleDiscard
// removes it by dropping responses to anything but the latest request.
//
// Complete ignores failed responses: the view and the page counter stay as
// they were. Callers decide whether to log or surface Response.Err.
//
// Search runs the three steps synchronously for callers without a loop.
//
// A Controller is not safe for concurrent use. Confine it to one goroutine.
package controller
