package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/hanoi/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Pending state updates before new ones are dropped
	broadcastBuffer = 64

	// Pending frames per client before it is disconnected
	sendBuffer = 32
)

// Event names carried by Message
const (
	EventState    = "state_update"
	EventShutdown = "shutdown"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Spectating is read-only, any origin may watch
		return true
	},
}

// Message is one frame sent to spectators
type Message struct {
	Event string        `json:"event"`
	State *engine.State `json:"state,omitempty"`
	Time  time.Time     `json:"time"`
}

// Client is one connected spectator
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans game states out to every connected spectator. It implements
// service.Observer.
type Hub struct {
	clients map[*Client]bool

	// Encoded state updates waiting to be fanned out
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Most recent encoded state, sent to clients when they connect
	mu     sync.RWMutex
	latest []byte

	// Closed once Run has returned
	done chan struct{}

	count atomic.Int32
	now   func() time.Time
}

// NewHub creates a new spectator hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// Run starts the hub's event loop. It returns when ctx is cancelled,
// after telling every client the feed is closing.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			h.broadcastMessage(data)
		}
	}
}

// OnState queues a state update for all spectators. It never blocks, so
// it is safe to call while the game holds its own lock.
func (h *Hub) OnState(state engine.State) {
	data, err := h.encode(EventState, &state)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal spectator message")
		return
	}

	h.mu.Lock()
	h.latest = data
	h.mu.Unlock()

	select {
	case h.broadcast <- data:
	default:
		log.Warn().Int("move", state.MoveCount).Msg("spectator feed backed up, dropping update")
	}
}

// ClientCount returns the number of connected spectators
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// ServeWS upgrades the request and registers a spectator. The hub must be
// running.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

func (h *Hub) encode(event string, state *engine.State) ([]byte, error) {
	return json.Marshal(&Message{
		Event: event,
		State: state,
		Time:  h.now(),
	})
}

// registerClient adds a client and queues the latest state for it, so a
// spectator joining mid-game sees the board immediately
func (h *Hub) registerClient(client *Client) {
	h.mu.RLock()
	if h.latest != nil {
		client.send <- h.latest
	}
	h.mu.RUnlock()

	h.clients[client] = true
	h.count.Store(int32(len(h.clients)))

	log.Info().Int("spectators", len(h.clients)).Msg("spectator connected")
}

func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.count.Store(int32(len(h.clients)))

		log.Info().Int("spectators", len(h.clients)).Msg("spectator disconnected")
	}
}

func (h *Hub) broadcastMessage(data []byte) {
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client can't keep up, drop it
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) shutdown() {
	data, err := h.encode(EventShutdown, nil)
	if err != nil {
		data = nil
	}
	for client := range h.clients {
		if data != nil {
			select {
			case client.send <- data:
			default:
			}
		}
		h.unregisterClient(client)
	}
	close(h.done)
}

// readPump discards anything the spectator sends and notices disconnects
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("spectator connection error")
			}
			break
		}
	}
}

// writePump sends queued frames, one JSON message per frame
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
