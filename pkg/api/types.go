package api

import (
	"time"

	"github.com/rubiojr/shakesearch/pkg/querylog"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Sessions  int       `json:"sessions"`
}

type StatsResponse struct {
	QueryLog   bool                  `json:"query_log"`
	Total      int                   `json:"total"`
	TopQueries []querylog.QueryCount `json:"top_queries"`
}

// sessionMessage is a server to client websocket message.
type sessionMessage struct {
	Type     string `json:"type"`
	Session  string `json:"session,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Append   bool   `json:"append"`
	Rows     string `json:"rows,omitempty"`
	Page     int    `json:"page"`
}

// clientMessage is a client to server websocket message.
type clientMessage struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}
