package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/metrics"
	"github.com/yourusername/safebet-analyst/internal/models"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBuffer     = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

// LiveMessage is the payload pushed to websocket subscribers
type LiveMessage struct {
	Type      string             `json:"type"`
	Matches   []models.LiveMatch `json:"matches"`
	Stats     models.LiveStats   `json:"stats"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of websocket clients and broadcasts live snapshots to them.
type Hub struct {
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
	done       chan struct{}
	clients    map[*wsClient]struct{}
	log        *logrus.Entry
}

// NewHub creates a hub. Run must be called before clients connect.
func NewHub(log *logrus.Entry) *Hub {
	return &Hub{
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 1),
		done:       make(chan struct{}),
		clients:    make(map[*wsClient]struct{}),
		log:        log,
	}
}

// Run serves register, unregister and broadcast requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			close(c.send)
			delete(h.clients, c)
		}
		metrics.UpdateWebsocketClients(0)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.UpdateWebsocketClients(len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				metrics.UpdateWebsocketClients(len(h.clients))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow client
					delete(h.clients, c)
					close(c.send)
				}
			}
			metrics.UpdateWebsocketClients(len(h.clients))
		}
	}
}

// Broadcast queues msg for every connected client. It drops the message when
// the hub has stopped.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Feed forwards every snapshot published by board to the clients until ctx
// is done.
func (h *Hub) Feed(ctx context.Context, board LiveBoard) {
	ch := board.Subscribe()
	defer board.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-ch:
			if !ok {
				return
			}
			msg, err := encodeLive(snapshot, board.Stats(), board.LastUpdate())
			if err != nil {
				h.log.WithError(err).Error("Failed to encode live snapshot")
				continue
			}
			h.Broadcast(msg)
		}
	}
}

// ServeWS upgrades the request, sends initial and then joins the broadcast.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, initial []byte) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		c.send <- initial
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

// readPump discards inbound messages and unregisters the client once the
// connection drops.
func (c *wsClient) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Debug("Websocket closed unexpectedly")
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func encodeLive(matches []models.LiveMatch, stats models.LiveStats, at time.Time) ([]byte, error) {
	if matches == nil {
		matches = []models.LiveMatch{}
	}
	return json.Marshal(LiveMessage{
		Type:      "live",
		Matches:   matches,
		Stats:     stats,
		UpdatedAt: at,
	})
}
