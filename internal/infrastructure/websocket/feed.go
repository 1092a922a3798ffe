package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"phonemart/internal/domain/entity"
	"phonemart/pkg/logger"
)

// Event is one message pushed over a favorites feed connection.
type Event struct {
	Type    string                 `json:"type"` // "favorites", "count", "error"
	Items   []*entity.FavoriteItem `json:"items,omitempty"`
	Count   int                    `json:"count"`
	Message string                 `json:"message,omitempty"`
}

// FeedClient bridges one websocket connection to the favorites
// broadcast; it implements the favorites listener callbacks by queueing
// events for the write pump. A connection too slow to drain its queue is
// dropped rather than allowed to block the broadcaster. Queueing after
// Close is a no-op, so a notifier holding a stale listener snapshot can
// still deliver safely while the connection tears down.
type FeedClient struct {
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan Event
	closed bool
}

func NewFeedClient(conn *websocket.Conn) *FeedClient {
	return &FeedClient{
		conn: conn,
		send: make(chan Event, 16),
	}
}

func (c *FeedClient) OnFavoritesUpdated(items []*entity.FavoriteItem) {
	c.queue(Event{Type: "favorites", Items: items, Count: len(items)})
}

func (c *FeedClient) OnFavoriteCountChanged(count int) {
	c.queue(Event{Type: "count", Count: count})
}

func (c *FeedClient) OnFavoriteError(message string) {
	c.queue(Event{Type: "error", Message: message})
}

func (c *FeedClient) queue(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.send <- event:
	default:
		logger.Warn("Favorites feed queue full, closing connection")
		c.conn.Close()
	}
}

// WritePump sends queued events to the connection until Close.
func (c *FeedClient) WritePump() {
	defer c.conn.Close()

	for event := range c.send {
		payload, err := json.Marshal(event)
		if err != nil {
			logger.Error("Failed to encode feed event: %v", err)
			continue
		}

		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}

	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump discards inbound frames and returns when the peer goes away.
func (c *FeedClient) ReadPump() {
	defer c.conn.Close()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Favorites feed read error: %v", err)
			}
			return
		}
	}
}

// Close stops the write pump; it is idempotent and safe to call while a
// notification is in flight.
func (c *FeedClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
