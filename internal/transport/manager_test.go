package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/studiowebux/cloudterm/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// collector accumulates handler deliveries for assertions
type collector struct {
	mu       sync.Mutex
	messages []types.WireMessage
}

func (c *collector) handle(msg types.WireMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *collector) snapshot() []types.WireMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.WireMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *collector) waitFor(t *testing.T, pred func([]types.WireMessage) bool) []types.WireMessage {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msgs := c.snapshot()
		if pred(msgs) {
			return msgs
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline; got %v", c.snapshot())
	return nil
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestConnect_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	c := &collector{}
	m := NewManager(wsURL(server), c.handle)
	defer m.Disconnect()

	if err := m.Connect(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if m.State() != StateConnected {
		t.Errorf("Expected state connected, got: %s", m.State())
	}

	msgs := c.waitFor(t, func(msgs []types.WireMessage) bool { return len(msgs) >= 1 })
	if msgs[0].Type != types.MessageSystem || !strings.Contains(msgs[0].Data, "Connected to") {
		t.Errorf("Expected connected banner, got: %+v", msgs[0])
	}
}

func TestConnect_Failure(t *testing.T) {
	// Server rejects the upgrade outright
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	}))
	defer server.Close()

	m := NewManager(wsURL(server), nil)

	err := m.Connect()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "HTTP 403") {
		t.Errorf("Expected HTTP status in error, got: %v", err)
	}
	if m.State() != StateDisconnected {
		t.Errorf("Expected state disconnected after failure, got: %s", m.State())
	}
}

func TestDisconnect_Idempotent(t *testing.T) {
	m := NewManager("ws://localhost:1", nil)

	// Never connected: both calls are no-ops
	m.Disconnect()
	m.Disconnect()

	if m.State() != StateDisconnected {
		t.Errorf("Expected state disconnected, got: %s", m.State())
	}
}

func TestDisconnect_AfterConnect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	c := &collector{}
	m := NewManager(wsURL(server), c.handle)

	if err := m.Connect(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	m.Disconnect()
	if m.State() != StateDisconnected {
		t.Errorf("Expected state disconnected, got: %s", m.State())
	}

	// Second disconnect must be a silent no-op
	m.Disconnect()
	if m.State() != StateDisconnected {
		t.Errorf("Expected state disconnected after second call, got: %s", m.State())
	}

	// Give the read loop a moment; a deliberate close must not surface
	// a "Connection lost" notice.
	time.Sleep(100 * time.Millisecond)
	for _, msg := range c.snapshot() {
		if strings.Contains(msg.Data, "Connection lost") {
			t.Errorf("Deliberate disconnect reported as lost connection: %+v", msg)
		}
	}
}

func TestSend_NotConnected(t *testing.T) {
	m := NewManager("ws://localhost:1", nil)

	err := m.Send("ls")
	if err != ErrNotConnected {
		t.Errorf("Expected ErrNotConnected, got: %v", err)
	}
}

func TestSend_CommandFrame(t *testing.T) {
	received := make(chan types.WireMessage, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var frame types.WireMessage
		if err := conn.ReadJSON(&frame); err == nil {
			received <- frame
		}
	}))
	defer server.Close()

	m := NewManager(wsURL(server), nil)
	defer m.Disconnect()

	if err := m.Connect(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := m.Send("echo hi"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	select {
	case frame := <-received:
		if frame.Type != types.MessageCommand {
			t.Errorf("Expected type %q, got %q", types.MessageCommand, frame.Type)
		}
		if frame.Data != "echo hi" {
			t.Errorf("Expected data 'echo hi', got %q", frame.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Server never received the command frame")
	}
}

func TestReadLoop_DispatchesByType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"output","data":"hello"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","data":"boom"}`))
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	c := &collector{}
	m := NewManager(wsURL(server), c.handle)
	defer m.Disconnect()

	if err := m.Connect(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	msgs := c.waitFor(t, func(msgs []types.WireMessage) bool { return len(msgs) >= 3 })

	// msgs[0] is the connected banner
	if msgs[1].Type != types.MessageOutput || msgs[1].Data != "hello" {
		t.Errorf("Expected output frame 'hello', got: %+v", msgs[1])
	}
	if msgs[2].Type != types.MessageError || msgs[2].Data != "boom" {
		t.Errorf("Expected error frame 'boom', got: %+v", msgs[2])
	}
}

func TestReadLoop_MalformedPayloadDeliveredRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("plain text, not JSON"))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"no":"type field"}`))
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	c := &collector{}
	m := NewManager(wsURL(server), c.handle)
	defer m.Disconnect()

	if err := m.Connect(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	msgs := c.waitFor(t, func(msgs []types.WireMessage) bool { return len(msgs) >= 3 })

	if msgs[1].Type != types.MessageRaw || msgs[1].Data != "plain text, not JSON" {
		t.Errorf("Expected raw passthrough, got: %+v", msgs[1])
	}
	if msgs[2].Type != types.MessageRaw {
		t.Errorf("Expected typeless JSON delivered raw, got: %+v", msgs[2])
	}
}

func TestConnect_ReplacesExistingSocket(t *testing.T) {
	var mu sync.Mutex
	connections := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		connections++
		mu.Unlock()
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	m := NewManager(wsURL(server), nil)
	defer m.Disconnect()

	if err := m.Connect(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := m.Connect(); err != nil {
		t.Fatalf("Expected no error on second connect, got: %v", err)
	}

	if m.State() != StateConnected {
		t.Errorf("Expected state connected, got: %s", m.State())
	}

	mu.Lock()
	defer mu.Unlock()
	if connections != 2 {
		t.Errorf("Expected 2 server-side connections, got: %d", connections)
	}
}

func TestReconnect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	m := NewManager(wsURL(server), nil, WithReconnectDelay(10*time.Millisecond))
	defer m.Disconnect()

	if err := m.Connect(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := m.Reconnect(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if m.State() != StateConnected {
		t.Errorf("Expected state connected after reconnect, got: %s", m.State())
	}
}

func TestDeliver_HandlerPanicSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"output","data":"one"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"output","data":"two"}`))
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	c := &collector{}
	panicking := func(msg types.WireMessage) {
		c.handle(msg)
		panic("observer blew up")
	}

	m := NewManager(wsURL(server), panicking)
	defer m.Disconnect()

	if err := m.Connect(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Both frames must still be delivered despite the panics
	c.waitFor(t, func(msgs []types.WireMessage) bool { return len(msgs) >= 3 })
}
