package viewer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/spectate"
)

const (
	watcherBuffer = 64
	writeWait     = 5 * time.Second
)

// Hub fans envelopes out to watchers. A watcher that falls a full buffer
// behind is disconnected rather than slowing the others down.
type Hub struct {
	mu       sync.Mutex
	watchers map[*watcher]struct{}
	log      *slog.Logger
}

type watcher struct {
	conn *websocket.Conn
	send chan spectate.Envelope
	once sync.Once
}

func (w *watcher) stop() { w.once.Do(func() { close(w.send) }) }

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{watchers: make(map[*watcher]struct{}), log: logger}
}

// Watchers returns the number of connected watchers.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

func (h *Hub) Broadcast(env spectate.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.watchers {
		select {
		case w.send <- env:
		default:
			h.log.Warn("dropping slow watcher", "remote", w.conn.RemoteAddr().String())
			delete(h.watchers, w)
			w.stop()
		}
	}
}

// Serve registers c and writes to it until it disconnects or is dropped.
func (h *Hub) Serve(c *websocket.Conn) {
	w := &watcher{conn: c, send: make(chan spectate.Envelope, watcherBuffer)}
	h.mu.Lock()
	h.watchers[w] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.remove(w)
		_ = c.Close()
	}()

	// Watchers never send anything; reading only notices the close.
	go func() {
		for {
			if _, _, err := c.NextReader(); err != nil {
				h.remove(w)
				return
			}
		}
	}()

	for env := range w.send {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(env); err != nil {
			return
		}
	}
}

func (h *Hub) remove(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.watchers[w]; ok {
		delete(h.watchers, w)
		w.stop()
	}
}
