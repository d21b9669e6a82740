package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/logger"
	"github.com/custodia-labs/meshdrop/internal/metrics"
)

// Ensure Hub observes the scene.
var _ driven.SceneObserver = (*Hub)(nil)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Hub fans scene changes out to connected viewport clients and forwards
// their rescale commands to the viewer.
type Hub struct {
	ports       *Ports
	rescaleRate int
	upgrader    websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// NewHub creates a hub. rescaleRate caps rescale commands per second per client.
func NewHub(ports *Ports, rescaleRate int) *Hub {
	if rescaleRate <= 0 {
		rescaleRate = 30
	}
	return &Hub{
		ports:       ports,
		rescaleRate: rescaleRate,
		upgrader: websocket.Upgrader{
			CheckOrigin: sameHost,
		},
		clients: make(map[*client]struct{}),
	}
}

// sameHost accepts requests without an Origin header or from the serving host.
func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ModelAdded broadcasts a newly resident model.
func (h *Hub) ModelAdded(model domain.LoadedModel) {
	view := newModelView(model)
	h.broadcast(Event{Type: EventModelAdded, Model: &view})
}

// ModelRemoved broadcasts a removed model.
func (h *Hub) ModelRemoved(id string) {
	h.broadcast(Event{Type: EventModelRemoved, ID: id})
}

// ModelScaled broadcasts a scale change.
func (h *Hub) ModelScaled(id string, scale domain.Vec3) {
	h.broadcast(Event{Type: EventModelScaled, ID: id, Scale: &scale})
}

// LoadOutcome broadcasts failed loads. Successful loads arrive through
// ModelAdded and stale ones are dropped.
func (h *Hub) LoadOutcome(outcome domain.LoadOutcome) {
	if outcome.Stale || outcome.Err == nil {
		return
	}
	h.broadcast(Event{
		Type:       EventLoadFailed,
		Generation: outcome.Generation,
		Error:      outcome.Err.Error(),
	})
}

func (h *Hub) broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("web: marshal %s event: %v", event.Type, err)
		return
	}
	metrics.RecordWebsocketEvent(event.Type)

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow client.
			logger.Warn("web: dropping slow viewport client")
			h.removeLocked(c)
		}
	}
}

func (h *Hub) snapshot() Event {
	status := h.ports.Viewer.Status()
	event := Event{Type: EventSnapshot, Status: &status}
	if h.ports.Scene != nil {
		for _, m := range h.ports.Scene.Models() {
			event.Models = append(event.Models, newModelView(m))
		}
	}
	return event
}

// ServeHTTP upgrades the request and runs the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("web: websocket upgrade: %v", err)
		return
	}

	c := &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(rate.Limit(h.rescaleRate), h.rescaleRate),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	metrics.SetWebsocketClients(count)
	logger.Debug("web: viewport client connected (%d total)", count)

	// A model added while the snapshot is built may arrive twice;
	// the page ignores ids it already holds.
	c.reply(h.snapshot())
	metrics.RecordWebsocketEvent(EventSnapshot)

	go c.writePump()
	c.readPump()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.SetWebsocketClients(len(h.clients))
}

// readPump handles commands until the connection fails.
func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
		logger.Debug("web: viewport client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("web: websocket read: %v", err)
			}
			return
		}
		c.handle(cmd)
	}
}

func (c *client) handle(cmd Command) {
	switch cmd.Type {
	case CommandRescale:
		if !c.limiter.Allow() {
			metrics.RecordRescale(false)
			return
		}
		if err := c.hub.ports.Viewer.Rescale(cmd.Factor); err != nil {
			c.reply(Event{Type: EventError, Error: err.Error()})
		}
	default:
		c.reply(Event{Type: EventError, Error: "unknown command " + cmd.Type})
	}
}

// reply queues an event for this client only.
func (c *client) reply(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if _, ok := c.hub.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// writePump drains the send queue and keeps the connection alive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug("web: websocket write: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
