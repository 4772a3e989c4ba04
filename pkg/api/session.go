package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rubiojr/shakesearch/pkg/controller"
	"github.com/rubiojr/shakesearch/pkg/log"
	"github.com/rubiojr/shakesearch/pkg/realtime"
	"github.com/rubiojr/shakesearch/pkg/view"
)

var sessionLogger = log.ForService("session")

const writeTimeout = 10 * time.Second

// HandleSession runs a search controller for one websocket connection.
//
// The client sends {"type":"search","query":...} for a fresh search and
// {"type":"more","query":...} to load the next page. The server answers with
// "clear", "render" (rows markup plus append flag) and "page" messages, and
// forwards hub events such as "reload".
func (s *Server) HandleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		sessionLogger.Warnf("websocket upgrade: %v", err)
		return
	}

	opts := []controller.Option{controller.WithPageSize(s.sessionPageSize)}
	if s.sessionDiscardStale {
		opts = append(opts, controller.WithStaleDiscard())
	}

	var notifications <-chan realtime.Event
	if s.hub != nil {
		id, ch := s.hub.Register()
		defer s.hub.Unregister(id)
		notifications = ch
	}

	sess := newSession(conn, s.service.Fetcher(), opts...)
	sessionLogger.Debugf("session %s opened from %s", sess.id, r.RemoteAddr)
	sess.run(r.Context(), notifications)
	sessionLogger.Debugf("session %s closed", sess.id)
}

// sessionView mirrors the rendered table and queues the changes for the
// client.
type sessionView struct {
	table  *view.Table
	outbox []sessionMessage
}

func (v *sessionView) Render(results []string, appendRows bool) {
	before := 0
	if appendRows {
		before = v.table.Len()
	}
	v.table.Render(results, appendRows)
	v.outbox = append(v.outbox, sessionMessage{
		Type:   "render",
		Append: appendRows,
		Rows:   strings.Join(v.table.Rows()[before:], ""),
	})
}

func (v *sessionView) Clear() {
	v.table.Clear()
	v.outbox = append(v.outbox, sessionMessage{Type: "clear"})
}

type session struct {
	id   string
	conn *websocket.Conn
	view *sessionView
	ctrl *controller.Controller
}

func newSession(conn *websocket.Conn, fetcher controller.Fetcher, opts ...controller.Option) *session {
	v := &sessionView{table: view.NewTable()}
	return &session{
		id:   uuid.NewString(),
		conn: conn,
		view: v,
		ctrl: controller.New(fetcher, v, opts...),
	}
}

// run is the session's event loop. It is the only goroutine touching the
// controller and the only one writing to the connection. Fetches run on
// their own goroutines and come back as responses, in completion order.
// A nil notifications channel disables hub events.
func (s *session) run(ctx context.Context, notifications <-chan realtime.Event) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	events := make(chan clientMessage)
	readErr := make(chan error, 1)
	responses := make(chan controller.Response)

	go s.readLoop(ctx, events, readErr)

	s.view.outbox = append(s.view.outbox, sessionMessage{
		Type:     "init",
		Session:  s.id,
		PageSize: s.ctrl.PageSize(),
	})

	for {
		if err := s.flush(); err != nil {
			sessionLogger.Debugf("session %s write: %v", s.id, err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sessionLogger.Warnf("session %s read: %v", s.id, err)
			}
			return
		case msg := <-events:
			s.handle(ctx, msg, responses)
		case ev, ok := <-notifications:
			if !ok {
				notifications = nil
				continue
			}
			s.view.outbox = append(s.view.outbox, sessionMessage{Type: ev.Type})
		case resp := <-responses:
			if resp.Err != nil {
				// No error state is shown; the rows simply stay as they are.
				sessionLogger.Debugf("session %s page %d of %q failed, ignored: %v", s.id, resp.Request.Page, resp.Request.Query, resp.Err)
				continue
			}
			if s.ctrl.Complete(resp) {
				s.view.outbox = append(s.view.outbox, sessionMessage{Type: "page", Page: s.ctrl.CurrentPage()})
			}
		}
	}
}

func (s *session) handle(ctx context.Context, msg clientMessage, responses chan<- controller.Response) {
	var loadMore bool
	switch msg.Type {
	case "search":
	case "more":
		loadMore = true
	default:
		sessionLogger.Debugf("session %s: unknown message type %q", s.id, msg.Type)
		return
	}

	req := s.ctrl.Begin(msg.Query, loadMore)
	go func() {
		resp := s.ctrl.Fetch(ctx, req)
		select {
		case responses <- resp:
		case <-ctx.Done():
		}
	}()
}

func (s *session) readLoop(ctx context.Context, events chan<- clientMessage, readErr chan<- error) {
	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			readErr <- err
			return
		}
		select {
		case events <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (s *session) flush() error {
	for _, msg := range s.view.outbox {
		if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return err
		}
		if err := s.conn.WriteJSON(msg); err != nil {
			return err
		}
	}
	s.view.outbox = s.view.outbox[:0]
	return nil
}
