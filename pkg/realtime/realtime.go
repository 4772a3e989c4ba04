// Package realtime is an in-process publish/subscribe hub that fans out
// server events (corpus reloads) to every open websocket session.
//
// Delivery is best effort: a listener whose buffer is full misses the event.
// Nothing is persisted or replayed.
package realtime

import (
	"sync"
	"time"
)

// EventReload is sent after the corpus has been re-indexed.
const EventReload = "reload"

// Event is one hub notification.
type Event struct {
	Type string    `json:"type"`
	Path string    `json:"path,omitempty"`
	Size int       `json:"size,omitempty"`
	At   time.Time `json:"at"`
}

// NewReloadEvent describes a corpus of size bytes re-indexed from path.
func NewReloadEvent(path string, size int) Event {
	return Event{Type: EventReload, Path: path, Size: size, At: time.Now().UTC()}
}

// Hub is an in-memory fan-out dispatcher. Each registered listener receives
// events via its own buffered channel. It is safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub constructs a hub with the given per-listener buffer size.
// If bufSize <= 0, a default of 8 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 8
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Callers must Unregister the id when done.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers event to all listeners, dropping it for slow ones.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- event:
		default:
		}
	}
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
