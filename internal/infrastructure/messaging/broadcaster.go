// Package messaging provides the WebSocket broadcaster for the live
// engagement feed.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// Live feed event types.
const (
	EventEngagementUpdate = "engagement_update"
	EventConversion       = "conversion"
	EventSegmentChange    = "segment_change"
)

// LiveEvent is the envelope pushed to connected dashboard clients.
type LiveEvent struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// LiveBroadcaster manages WebSocket connections for the live feed.
type LiveBroadcaster struct {
	clients map[*Client]bool
	mu      sync.Mutex
	logger  *logging.ChanneledLogger
}

var (
	globalBroadcaster *LiveBroadcaster
	once              sync.Once
)

// NewLiveBroadcaster creates the singleton LiveBroadcaster instance.
func NewLiveBroadcaster(logger *logging.ChanneledLogger) *LiveBroadcaster {
	once.Do(func() {
		globalBroadcaster = &LiveBroadcaster{
			clients: make(map[*Client]bool),
			logger:  logger,
		}
	})
	return globalBroadcaster
}

// Register adds a connected client to the feed.
func (b *LiveBroadcaster) Register(client *Client) {
	b.mu.Lock()
	b.clients[client] = true
	count := len(b.clients)
	b.mu.Unlock()

	b.logger.Live().Debug("Live feed client registered", "clientCount", count)
}

// Unregister removes a client and closes its send channel.
func (b *LiveBroadcaster) Unregister(client *Client) {
	b.mu.Lock()
	if _, exists := b.clients[client]; exists {
		delete(b.clients, client)
		close(client.send)
	}
	count := len(b.clients)
	b.mu.Unlock()

	b.logger.Live().Debug("Live feed client unregistered", "clientCount", count)
}

// Broadcast pushes an event to every connected client. Slow clients are
// skipped rather than blocking the ingest path.
func (b *LiveBroadcaster) Broadcast(eventType string, data any) {
	event := LiveEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Live().Error("Failed to marshal live event", "error", err.Error(), "eventType", eventType)
		return
	}

	b.mu.Lock()
	count := len(b.clients)
	for client := range b.clients {
		select {
		case client.send <- payload:
		default:
			// Client buffer full; drop this event for the slow client
		}
	}
	b.mu.Unlock()

	if count > 0 {
		b.logger.LogLiveEvent(eventType, count)
	}
}

// ClientCount returns the number of connected clients.
func (b *LiveBroadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// =============================================================================
// Client connection pumps
// =============================================================================

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Client is a middleman between a websocket connection and the broadcaster.
type Client struct {
	broadcaster *LiveBroadcaster
	conn        *websocket.Conn
	send        chan []byte
}

// NewClient wraps an upgraded websocket connection.
func NewClient(b *LiveBroadcaster, conn *websocket.Conn) *Client {
	return &Client{
		broadcaster: b,
		conn:        conn,
		send:        make(chan []byte, 64),
	}
}

// Start begins reading and writing for the client.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump drains inbound frames to process control messages and detect
// disconnects. The live feed is one-directional; payloads are ignored.
func (c *Client) readPump() {
	defer func() {
		c.broadcaster.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.broadcaster.logger.Live().Debug("Unexpected websocket close", "error", err.Error())
			}
			break
		}
	}
}

// writePump pumps events from the broadcaster to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// The broadcaster closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
