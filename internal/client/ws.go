package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// reconnectDelay is the fixed wait between connection attempts.
	// There is no retry cap; the client reconnects for the life of
	// the program.
	reconnectDelay = 5 * time.Second

	// keepaliveInterval is how often the literal "ping" text frame is
	// sent while open. It is send-only; the server's pong is ignored.
	keepaliveInterval = 30 * time.Second

	writeTimeout = 10 * time.Second
)

type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateOpen
)

// WSClient manages the single live connection to /ws/updates. Ownership
// of the underlying transport is exclusive to this client; at most one
// transport exists at any instant, and every connection loss arms exactly
// one reconnect attempt after reconnectDelay.
type WSClient struct {
	url string
	log *zap.Logger

	mu         sync.Mutex
	writeMu    sync.Mutex // serialises all conn writes
	conn       *websocket.Conn
	state      connState
	retryAt    time.Time // earliest moment the next dial may happen
	closed     bool
	pingCancel context.CancelFunc
}

// NewWSClient creates a client for the given WebSocket URL.
func NewWSClient(url string, log *zap.Logger) *WSClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSClient{url: url, log: log}
}

// --- Bubble Tea messages ---

// WSConnectedMsg is sent when the stream connects.
type WSConnectedMsg struct{}

// WSDisconnectedMsg is sent when the connection drops.
type WSDisconnectedMsg struct{ Err error }

// SensorDataMsg delivers one live sensor reading.
type SensorDataMsg struct {
	StationID  int
	SensorType string
	Timestamp  int64
	Data       json.RawMessage
}

// StationStatusMsg delivers a risk level change for one station.
type StationStatusMsg struct {
	StationID int
	RiskLevel string
}

// AlertMsg delivers a server-side alert broadcast.
type AlertMsg struct {
	StationID int
	Timestamp int64
	Level     string
	Category  string
	Message   string
}

// BatchMsg carries the inner events of a batch_update frame in arrival
// order; the receiver dispatches each with Dispatch.
type BatchMsg struct{ Events []Envelope }

// Listen returns a Bubble Tea command that establishes the connection,
// honoring the post-close delay, and retrying failed dials forever at a
// fixed cadence. It is idempotent: while the client is connecting or
// open, another Listen does nothing rather than dial a second transport.
func (c *WSClient) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		if c.closed || c.state != stateDisconnected {
			c.mu.Unlock()
			return nil
		}
		c.state = stateConnecting
		wait := time.Until(c.retryAt)
		c.mu.Unlock()

		if wait > 0 {
			select {
			case <-ctx.Done():
				c.setDisconnected()
				return nil
			case <-time.After(wait):
			}
		}

		for {
			select {
			case <-ctx.Done():
				c.setDisconnected()
				return nil
			default:
			}

			conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
			if err != nil {
				c.log.Warn("ws dial", zap.Error(err), zap.Duration("retry_in", reconnectDelay))
				select {
				case <-ctx.Done():
					c.setDisconnected()
					return nil
				case <-time.After(reconnectDelay):
				}
				continue
			}

			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				conn.Close()
				return nil
			}
			if c.pingCancel != nil {
				c.pingCancel()
			}
			pingCtx, pingCancel := context.WithCancel(ctx)
			c.conn = conn
			c.state = stateOpen
			c.pingCancel = pingCancel
			c.mu.Unlock()

			go c.keepalive(pingCtx, conn)

			return WSConnectedMsg{}
		}
	}
}

// ReadLoop returns a Bubble Tea command that reads frames until the
// connection drops. A frame that fails to parse is logged and dropped;
// the connection survives. Start it after receiving WSConnectedMsg.
func (c *WSClient) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return WSDisconnectedMsg{}
		}

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				c.mu.Lock()
				if c.conn == conn {
					c.conn = nil
					c.state = stateDisconnected
					c.retryAt = time.Now().Add(reconnectDelay)
				}
				closed := c.closed
				c.mu.Unlock()
				conn.Close()
				if closed || ctx.Err() != nil {
					return nil
				}
				return WSDisconnectedMsg{Err: err}
			}

			var env Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				c.log.Warn("ws frame dropped", zap.Error(err))
				continue
			}

			msg := Dispatch(env)
			if msg != nil {
				return msg
			}
		}
	}
}

// Dispatch converts a wire envelope to its Bubble Tea message. Unknown
// discriminators and pong frames map to nil and are ignored.
func Dispatch(env Envelope) tea.Msg {
	switch env.Type {
	case MsgSensorData:
		return SensorDataMsg{
			StationID:  env.StationID,
			SensorType: env.SensorType,
			Timestamp:  env.Timestamp,
			Data:       env.Data,
		}
	case MsgStationStatus:
		return StationStatusMsg{
			StationID: env.StationID,
			RiskLevel: env.RiskLevel,
		}
	case MsgAlert:
		return AlertMsg{
			StationID: env.StationID,
			Timestamp: env.Timestamp,
			Level:     env.Level,
			Category:  env.Category,
			Message:   env.Message,
		}
	case MsgBatchUpdate:
		var inner []Envelope
		if err := json.Unmarshal(env.Data, &inner); err != nil {
			return nil
		}
		return BatchMsg{Events: inner}
	}
	return nil
}

// keepalive sends the "ping" text frame on a fixed cadence while the
// given connection is current. It exits when the context is cancelled,
// the connection changes, or a write fails.
func (c *WSClient) keepalive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			current := c.conn
			c.mu.Unlock()
			if current != conn {
				return
			}
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.TextMessage, []byte("ping"))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Close tears the client down: the pending reconnect is cancelled, the
// transport closed if open, and no further attempts happen.
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.state = stateDisconnected
	if c.pingCancel != nil {
		c.pingCancel()
		c.pingCancel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Connected reports whether a transport is currently open.
func (c *WSClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateOpen
}

// WSEndpoint derives the stream URL from the HTTP base URL, pairing ws
// with http and wss with https, and appending the /ws/updates path.
func WSEndpoint(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	if u.Scheme == "https" || u.Scheme == "wss" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/updates"
	u.RawQuery = ""
	return u.String()
}

func (c *WSClient) setDisconnected() {
	c.mu.Lock()
	if c.state == stateConnecting {
		c.state = stateDisconnected
	}
	c.mu.Unlock()
}
