// Package transport owns the duplex websocket connection to the remote echo
// endpoint. It knows nothing about price semantics: it moves text frames and
// reports connection state.
package transport

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait        = 5 * time.Second
	handshakeWait    = 10 * time.Second
	subscriberBuffer = 16
)

// Channel is a websocket client with at most one live connection. Transport
// errors never surface to callers; they collapse into a connection-state
// transition to false. Reconnecting is the caller's job.
type Channel struct {
	url    string
	dialer *websocket.Dialer
	logger *zap.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	gen       uint64 // bumped on every connect/disconnect so stale loops can't clobber a new connection

	writeMu sync.Mutex

	subMu     sync.Mutex
	stateSubs []chan bool
	msgSubs   []chan string
}

func NewChannel(url string, logger *zap.Logger) *Channel {
	return &Channel{
		url:    url,
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeWait},
		logger: logger,
	}
}

// Connect is idempotent: a no-op when already connected. State flips to
// connected immediately; the dial completes in the background, so early
// sends are dropped silently until the socket is actually up.
func (c *Channel) Connect() {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = true
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	c.publishState(true)
	go c.dial(gen)
}

// Disconnect closes the connection with a normal-closure frame and flips
// state to disconnected. Idempotent.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	if !c.connected && c.conn == nil {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.gen++
	c.mu.Unlock()

	if conn != nil {
		deadline := time.Now().Add(writeWait)
		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := conn.WriteControl(websocket.CloseMessage, closeMsg, deadline); err != nil {
			c.logger.Debug("close frame not sent", zap.Error(err))
		}
		conn.Close()
	}
	c.publishState(false)
}

// Send transmits a single text frame. Dropped silently when not connected;
// a write failure logs and drops the connection, it does not surface.
func (c *Channel) Send(message string) {
	c.mu.Lock()
	conn := c.conn
	gen := c.gen
	ok := c.connected
	c.mu.Unlock()

	if !ok || conn == nil {
		return
	}

	c.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteMessage(websocket.TextMessage, []byte(message))
	c.writeMu.Unlock()

	if err != nil {
		c.logger.Warn("websocket send failed", zap.Error(err))
		c.dropConnection(gen)
	}
}

// SubscribeState registers a connection-state subscriber. The current state
// is delivered immediately, then every transition in order.
func (c *Channel) SubscribeState() <-chan bool {
	c.mu.Lock()
	current := c.connected
	c.mu.Unlock()

	ch := make(chan bool, subscriberBuffer)
	c.subMu.Lock()
	c.stateSubs = append(c.stateSubs, ch)
	ch <- current
	c.subMu.Unlock()
	return ch
}

// SubscribeMessages registers an inbound text-frame subscriber.
func (c *Channel) SubscribeMessages() <-chan string {
	ch := make(chan string, subscriberBuffer)
	c.subMu.Lock()
	c.msgSubs = append(c.msgSubs, ch)
	c.subMu.Unlock()
	return ch
}

func (c *Channel) dial(gen uint64) {
	conn, _, err := c.dialer.Dial(c.url, nil)
	if err != nil {
		c.logger.Warn("websocket dial failed", zap.String("url", c.url), zap.Error(err))
		c.dropConnection(gen)
		return
	}

	c.mu.Lock()
	if c.gen != gen {
		// Disconnected (or reconnected) while the dial was in flight.
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn, gen)
}

// readLoop drains the connection until failure or explicit disconnect. Each
// text frame, and each binary frame that holds valid UTF-8, is published to
// message subscribers.
func (c *Channel) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("websocket receive failed", zap.Error(err))
			c.dropConnection(gen)
			return
		}

		switch msgType {
		case websocket.TextMessage:
			c.publishMessage(string(data))
		case websocket.BinaryMessage:
			if utf8.Valid(data) {
				c.publishMessage(string(data))
			}
		}
	}
}

// dropConnection is the single implicit path back to disconnected. The
// generation guard makes it a no-op when a stale loop reports a failure for
// a connection that was already replaced.
func (c *Channel) dropConnection(gen uint64) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.gen++
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	c.publishState(false)
}

func (c *Channel) publishState(connected bool) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.stateSubs {
		ch <- connected
	}
}

func (c *Channel) publishMessage(message string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.msgSubs {
		ch <- message
	}
}
