package remote

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 8
)

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Hub fans snapshots out to websocket clients. A client whose buffer is
// full is dropped rather than allowed to stall the others.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	stopOnce   sync.Once
	clients    map[uuid.UUID]*client
	logger     *zap.Logger
}

// NewHub creates a hub. Call Run before registering clients.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]*client),
		logger:     logger,
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			return nil
		case c := <-h.register:
			h.clients[c.id] = c
			h.logger.Debug("remote client connected", zap.Stringer("client", c.id), zap.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c.id]; ok {
				close(c.send)
				delete(h.clients, c.id)
				h.logger.Debug("remote client disconnected", zap.Stringer("client", c.id), zap.Int("clients", len(h.clients)))
			}
		case data := <-h.broadcast:
			for id, c := range h.clients {
				select {
				case c.send <- data:
				default:
					close(c.send)
					delete(h.clients, id)
					h.logger.Warn("dropping slow remote client", zap.Stringer("client", id))
				}
			}
		}
	}
}

// stop marks the hub finished. Later Broadcast and add calls return false.
func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Broadcast queues data for every connected client. It never blocks: it
// returns false once the hub has stopped or while its queue is full.
func (h *Hub) Broadcast(data []byte) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.broadcast <- data:
		return true
	default:
		h.logger.Debug("remote queue full, dropping snapshot")
		return false
	}
}

func (h *Hub) add(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// writeLoop drains c.send onto the socket and closes it when the hub
// closes the channel.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
