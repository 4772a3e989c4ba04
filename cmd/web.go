package cmd

import (
	"embed"
	"net/http"
	"strconv"
	"strings"

	"github.com/rubiojr/shakesearch/cmd/web/components"
	"github.com/rubiojr/shakesearch/cmd/web/components/types"
	"github.com/rubiojr/shakesearch/pkg/controller"
	"github.com/rubiojr/shakesearch/pkg/search"
	"github.com/rubiojr/shakesearch/pkg/version"
	"github.com/rubiojr/shakesearch/pkg/view"
)

//go:embed web/static/*
var staticFS embed.FS

// maxRenderedPages bounds the pages a single server rendered request replays.
const maxRenderedPages = 50

// WebServer serves the browser UI.
type WebServer struct {
	service  *search.Service
	pageSize int
}

func NewWebServer(service *search.Service, pageSize int) *WebServer {
	if pageSize <= 0 {
		pageSize = controller.DefaultPageSize
	}
	return &WebServer{service: service, pageSize: pageSize}
}

func (s *WebServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /static/", s.handleStatic)
}

// handleHome serves the search page. With a query parameter the results are
// rendered on the server, replaying the first "pages" pages through a
// controller the same way the browser would.
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		s.serveStaticFile(w, r, "index.html")
		return
	}

	pages := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("pages")); err == nil && v > 0 {
		pages = min(v, maxRenderedPages)
	}

	table := view.NewTable()
	ctrl := controller.New(s.service.Fetcher(), table, controller.WithPageSize(s.pageSize))

	if err := ctrl.Search(r.Context(), query, false); err != nil {
		logger.Debugf("rendering %q: %v", query, err)
	}
	exhausted := ctrl.CurrentPage() == 0
	for i := 1; i < pages && !exhausted; i++ {
		before := ctrl.CurrentPage()
		if err := ctrl.Search(r.Context(), query, true); err != nil {
			logger.Debugf("rendering %q page %d: %v", query, before, err)
			break
		}
		exhausted = ctrl.CurrentPage() == before
	}

	data := types.PageData{
		Title:       query + " - ShakeSearch",
		Query:       query,
		Rows:        table.Component(),
		RowCount:    table.Len(),
		CurrentPage: ctrl.CurrentPage(),
		PageSize:    ctrl.PageSize(),
		NextPages:   pages + 1,
		Exhausted:   exhausted,
		Version:     version.Version,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Results(data).Render(r.Context(), w); err != nil {
		logger.Errorf("rendering results page: %v", err)
	}
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	s.serveStaticFile(w, r, strings.TrimPrefix(r.URL.Path, "/static/"))
}

func (s *WebServer) serveStaticFile(w http.ResponseWriter, r *http.Request, name string) {
	content, err := staticFS.ReadFile("web/static/" + name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch {
	case strings.HasSuffix(name, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(name, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(name, ".html"):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := w.Write(content); err != nil {
		logger.Errorf("writing static content: %v", err)
	}
}
