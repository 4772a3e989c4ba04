package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzhttp"

	"github.com/rubiojr/shakesearch/pkg/controller"
	"github.com/rubiojr/shakesearch/pkg/log"
	"github.com/rubiojr/shakesearch/pkg/querylog"
	"github.com/rubiojr/shakesearch/pkg/realtime"
	"github.com/rubiojr/shakesearch/pkg/search"
)

var logger = log.ForService("api")

type Server struct {
	service  *search.Service
	queryLog *querylog.Log
	hub      *realtime.Hub
	upgrader websocket.Upgrader

	sessionPageSize     int
	sessionDiscardStale bool
}

// Option configures a Server.
type Option func(*Server)

// WithQueryLog exposes the query log through /api/stats.
func WithQueryLog(l *querylog.Log) Option {
	return func(s *Server) {
		s.queryLog = l
	}
}

// WithHub forwards hub events to websocket sessions and reports the number
// of open sessions in /health.
func WithHub(h *realtime.Hub) Option {
	return func(s *Server) {
		s.hub = h
	}
}

// WithSessionPageSize sets the page size of websocket session controllers.
func WithSessionPageSize(n int) Option {
	return func(s *Server) {
		s.sessionPageSize = n
	}
}

// WithSessionStaleDiscard makes websocket sessions drop responses to
// superseded requests.
func WithSessionStaleDiscard(enabled bool) Option {
	return func(s *Server) {
		s.sessionDiscardStale = enabled
	}
}

func NewServer(service *search.Service, opts ...Option) *Server {
	s := &Server{
		service:         service,
		sessionPageSize: controller.DefaultPageSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:   error,
		Message: message,
	})
}

// Middleware wraps next with CORS headers and gzip compression. Websocket
// upgrades bypass compression since they need the raw connection.
func Middleware(next http.Handler) http.Handler {
	cors := CorsMiddleware(next)
	compressed := gzhttp.GzipHandler(cors)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			cors.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
