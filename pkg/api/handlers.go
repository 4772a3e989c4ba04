package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rubiojr/shakesearch/pkg/querylog"
	"github.com/rubiojr/shakesearch/pkg/search"
	"github.com/rubiojr/shakesearch/pkg/version"
)

// HandleSearch answers GET /search?q=&page=&pageSize= with a JSON array of
// result snippets.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := search.ParseSearchParams(r.URL.Query())

	results, err := s.service.Search(r.Context(), params)
	if errors.Is(err, search.ErrMissingQuery) {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "missing search query in URL params")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	response := StatsResponse{TopQueries: []querylog.QueryCount{}}
	if s.queryLog == nil {
		s.writeJSON(w, http.StatusOK, response)
		return
	}

	limit := 10
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	total, err := s.queryLog.Count(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get stats", err.Error())
		return
	}
	top, err := s.queryLog.TopQueries(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get stats", err.Error())
		return
	}

	response.QueryLog = true
	response.Total = total
	response.TopQueries = top
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}
	if s.hub != nil {
		health.Sessions = s.hub.Size()
	}
	s.writeJSON(w, http.StatusOK, health)
}
