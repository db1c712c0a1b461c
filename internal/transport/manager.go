package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/studiowebux/cloudterm/internal/types"
)

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ErrNotConnected is returned by Send when no socket is open.
var ErrNotConnected = errors.New("not connected")

// Handler receives every inbound frame plus connection lifecycle
// notices (MessageSystem). It is invoked from the read goroutine and
// must not block for long; panics are swallowed.
type Handler func(msg types.WireMessage)

const (
	handshakeTimeout      = 45 * time.Second
	defaultReconnectDelay = 500 * time.Millisecond
)

// Manager owns exactly one live WebSocket connection to the cloud
// terminal backend. There is no retry policy: a failed connect reports
// once and stays disconnected until the caller reconnects deliberately.
type Manager struct {
	mu             sync.Mutex
	url            string
	state          State
	conn           *websocket.Conn
	handler        Handler
	dialer         *websocket.Dialer
	reconnectDelay time.Duration
	generation     int // invalidates stale read goroutines
}

// Option tunes a Manager.
type Option func(*Manager)

// WithReconnectDelay overrides the fixed delay between the disconnect
// and connect halves of Reconnect.
func WithReconnectDelay(d time.Duration) Option {
	return func(m *Manager) { m.reconnectDelay = d }
}

// WithHandshakeTimeout overrides the dialer's handshake timeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(m *Manager) { m.dialer.HandshakeTimeout = d }
}

// NewManager creates a manager for the given ws(s) URL.
// The handler may be nil.
func NewManager(wsURL string, handler Handler, opts ...Option) *Manager {
	m := &Manager{
		url:     wsURL,
		state:   StateDisconnected,
		handler: handler,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
		reconnectDelay: defaultReconnectDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connected reports whether a live socket is open.
func (m *Manager) Connected() bool {
	return m.State() == StateConnected
}

// URL returns the backend terminal endpoint.
func (m *Manager) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

// Connect opens a new socket to the terminal endpoint. If a socket is
// already open it is closed first, so Connect is safe to call at any
// time. On failure the state reverts to disconnected and the error is
// returned once; there is no automatic retry.
func (m *Manager) Connect() error {
	m.mu.Lock()
	if m.conn != nil {
		m.closeLocked()
	}
	m.state = StateConnecting
	wsURL := m.url
	m.mu.Unlock()

	conn, resp, err := m.dialer.Dial(wsURL, nil)
	if err != nil {
		m.mu.Lock()
		m.state = StateDisconnected
		m.mu.Unlock()
		if resp != nil {
			return fmt.Errorf("connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("connection failed: %w", err)
	}

	m.mu.Lock()
	// A concurrent Disconnect may have run while dialing; honor it.
	if m.state != StateConnecting {
		m.mu.Unlock()
		conn.Close()
		return nil
	}
	m.conn = conn
	m.state = StateConnected
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	m.deliver(types.WireMessage{Type: types.MessageSystem, Data: "Connected to " + wsURL})

	go m.readLoop(conn, gen)
	return nil
}

// Disconnect closes the active socket if present. Calling it while
// already disconnected is a no-op, never an error. Any command still
// in flight on the backend is abandoned without reporting its outcome.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	m.state = StateDisconnected
}

// closeLocked tears down the socket (must be called with lock held)
func (m *Manager) closeLocked() {
	if m.conn == nil {
		return
	}
	// Best-effort close frame; the peer may already be gone.
	_ = m.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = m.conn.Close()
	m.conn = nil
	m.generation++
}

// Reconnect is Disconnect followed by a short fixed delay and Connect.
// Manual recovery only; there is no backoff policy.
func (m *Manager) Reconnect() error {
	m.Disconnect()
	time.Sleep(m.reconnectDelay)
	return m.Connect()
}

// Send serializes a command frame and writes it to the socket.
// The response arrives asynchronously through the handler.
func (m *Manager) Send(command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateConnected || m.conn == nil {
		return ErrNotConnected
	}

	frame := types.WireMessage{Type: types.MessageCommand, Data: command}
	if err := m.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// readLoop decodes inbound frames until the connection dies. Frames
// that are not valid JSON (or lack a type discriminator) are delivered
// verbatim as raw text instead of being dropped.
func (m *Manager) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			stale := gen != m.generation
			if !stale {
				m.conn = nil
				m.state = StateDisconnected
			}
			m.mu.Unlock()

			// A deliberate Disconnect bumps the generation; only an
			// unexpected close is worth reporting.
			if !stale && websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				m.deliver(types.WireMessage{Type: types.MessageSystem, Data: fmt.Sprintf("Connection lost: %v", err)})
			}
			return
		}

		var frame types.WireMessage
		if jsonErr := json.Unmarshal(payload, &frame); jsonErr != nil || frame.Type == "" {
			m.deliver(types.WireMessage{Type: types.MessageRaw, Data: string(payload)})
			continue
		}
		m.deliver(frame)
	}
}

// deliver invokes the handler, swallowing panics so a misbehaving
// observer can never kill the read loop.
func (m *Manager) deliver(msg types.WireMessage) {
	if m.handler == nil {
		return
	}
	defer func() { _ = recover() }()
	m.handler(msg)
}
