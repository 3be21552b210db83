package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rook-computer/carousel/internal/state"
)

const (
	eventWriteWait  = 10 * time.Second
	eventPongWait   = 60 * time.Second
	eventPingPeriod = (eventPongWait * 9) / 10
	eventBuffer     = 16
)

type viewSource interface {
	View() state.View
	OnChange(fn func(state.View))
}

// EventHub pushes the view as JSON to every websocket client: once on connect,
// then after each change. Slow clients are dropped rather than waited for.
type EventHub struct {
	log      zerolog.Logger
	source   viewSource
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*eventClient]struct{}
}

type eventClient struct {
	send chan []byte
}

// NewEventHub subscribes to source. allowAnyOrigin disables the same-origin
// check, for a UI served by a dev server.
func NewEventHub(source viewSource, log zerolog.Logger, allowAnyOrigin bool) *EventHub {
	h := &EventHub{
		log:     log,
		source:  source,
		clients: make(map[*eventClient]struct{}),
	}
	if allowAnyOrigin {
		h.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	source.OnChange(h.Broadcast)
	return h
}

// Clients reports how many websocket clients are connected.
func (h *EventHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *EventHub) Broadcast(view state.View) {
	msg, err := json.Marshal(view)
	if err != nil {
		h.log.Error().Err(err).Msg("encode view event")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Info().Msg("dropping slow event client")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *EventHub) register(c *eventClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *EventHub) unregister(c *eventClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		zerolog.Ctx(r.Context()).Info().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &eventClient{send: make(chan []byte, eventBuffer)}
	initial, err := json.Marshal(h.source.View())
	if err == nil {
		c.send <- initial
	}
	h.register(c)

	go h.writePump(conn, c)
	h.readPump(conn, c)
}

// readPump discards client messages; it only notices the connection closing.
func (h *EventHub) readPump(conn *websocket.Conn, c *eventClient) {
	defer func() {
		h.unregister(c)
		_ = conn.Close()
	}()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(eventPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *EventHub) writePump(conn *websocket.Conn, c *eventClient) {
	ticker := time.NewTicker(eventPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
