// Package log is a small wrapper around the standard library logger used by
// every shakesearch component.
//
// Each component asks for a named logger once and keeps it in a package
// variable:
//
//	var logger = log.ForService("api")
//
//	logger.Infof("listening on %s", addr)
//	logger.Debugf("page %d for %q", page, query) // only with --debug
//
// Every line carries the component prefix, `[api>]` in the example above, so
// the output of the server, the websocket sessions and the corpus watcher can
// be told apart with grep.
//
// Debug output is off by default. It can be enabled for everything with
// SetGlobalDebug (the --debug flag does this) or for selected components with
// EnableDebugFor / SetDebugServices (the --debug-services flag).
//
// Tests redirect output with SetOutput(&buf) and assert on the buffer.
//
// All exported functions are safe for concurrent use.
package log
