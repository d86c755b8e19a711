package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// writeWait is time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// pongWait is time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// pingPeriod is the interval for sending pings (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is maximum message size allowed from peer
	maxMessageSize = 512

	sendBufferSize = 256

	// maxInvalidFrames closes a connection that keeps sending frames the server cannot use
	maxInvalidFrames = 5
)

// MessageTypeResync asks the server to resend session.ready, e.g. after a tab wakes up
const MessageTypeResync = "session.resync"

// ErrUnknownMessage is returned for inbound frames without a supported type
var ErrUnknownMessage = errors.New("unknown inbound message")

// InboundMessage is the only shape clients may send
type InboundMessage struct {
	Type string `json:"type"`
}

// ParseInbound decodes a client frame and checks its type is supported
func ParseInbound(data []byte) (InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, err
	}
	if msg.Type != MessageTypeResync {
		return msg, ErrUnknownMessage
	}
	return msg, nil
}

// Client represents a single WebSocket connection
type Client struct {
	id        string
	profileID int32
	conn      *websocket.Conn
	hub       *Hub
	send      chan []byte
	closed    bool
	mu        sync.RWMutex
	closeOnce sync.Once

	onResync      func()
	invalidFrames int
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, profileID int32, hub *Hub) *Client {
	return &Client{
		id:        uuid.New().String(),
		profileID: profileID,
		conn:      conn,
		hub:       hub,
		send:      make(chan []byte, sendBufferSize),
	}
}

// OnResync registers the callback for session.resync requests.
// Call it before starting ReadPump.
func (c *Client) OnResync(fn func()) {
	c.onResync = fn
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// ProfileID returns the client's profile ID
func (c *Client) ProfileID() int32 {
	return c.profileID
}

// Send queues a message to be sent to the client
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close closes the client connection
// Safe to call multiple times from different goroutines
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump reads client frames until the connection fails or the client
// sends too many unusable frames. This should be run in a goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Int32("profile_id", c.profileID).
					Msg("WebSocket unexpected close")
			}
			return
		}

		if !c.handleInbound(data) {
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "push-only connection"))
			return
		}
	}
}

// handleInbound dispatches one client frame and reports whether the
// connection should stay open
func (c *Client) handleInbound(data []byte) bool {
	msg, err := ParseInbound(data)
	if err != nil {
		c.invalidFrames++
		log.Debug().
			Err(err).
			Str("client_id", c.id).
			Int32("profile_id", c.profileID).
			Int("invalid_frames", c.invalidFrames).
			Msg("Ignoring inbound WebSocket frame")
		if c.invalidFrames >= maxInvalidFrames {
			log.Warn().
				Str("client_id", c.id).
				Int32("profile_id", c.profileID).
				Msg("Closing WebSocket client after repeated invalid frames")
			return false
		}
		return true
	}

	if msg.Type == MessageTypeResync && c.onResync != nil {
		c.onResync()
	}
	return true
}

// WritePump pumps messages from the hub to the WebSocket connection
// This should be run in a goroutine
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed, hub closed this client
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Int32("profile_id", c.profileID).
					Msg("WebSocket write error")
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
