package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/svarun115/googleplaces-mcp-server/internal/mcp"
	"github.com/svarun115/googleplaces-mcp-server/pkg/protocol"
)

func dialTestServer(t *testing.T) (*websocket.Conn, *httptest.Server) {
	t.Helper()
	srv := NewWebSocketServer(newTestHandler(t), 0)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, ts
}

func readResponse(t *testing.T, conn *websocket.Conn) *mcp.Response {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading websocket message: %v", err)
	}
	var resp mcp.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	return &resp
}

func TestWebSocketRequestResponse(t *testing.T) {
	conn, _ := dialTestServer(t)

	msg := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("writing message: %v", err)
	}

	resp := readResponse(t, conn)
	if resp.Error != nil {
		t.Fatalf("tools/list failed: %+v", resp.Error)
	}
	if resp.Result == nil {
		t.Fatal("expected a result")
	}
}

func TestWebSocketNotificationIsSilent(t *testing.T) {
	conn, _ := dialTestServer(t)

	// A notification yields nothing; the next outbound message must be the
	// reply to the ping that follows it.
	notif := `{"jsonrpc":"2.0","method":"notifications/initialized"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(notif)); err != nil {
		t.Fatalf("writing notification: %v", err)
	}
	ping := `{"jsonrpc":"2.0","id":"after-notif","method":"ping"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ping)); err != nil {
		t.Fatalf("writing ping: %v", err)
	}

	resp := readResponse(t, conn)
	if resp.ID != "after-notif" {
		t.Errorf("expected the ping response, got id %v", resp.ID)
	}
}

func TestWebSocketParseErrorKeepsConnectionOpen(t *testing.T) {
	conn, _ := dialTestServer(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("writing bad message: %v", err)
	}

	resp := readResponse(t, conn)
	if resp.Error == nil || resp.Error.Code != protocol.CodeParseError {
		t.Fatalf("expected parse error, got %+v", resp.Error)
	}

	// The connection survives the bad message.
	msg := `{"jsonrpc":"2.0","id":2,"method":"ping"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("writing after parse error: %v", err)
	}
	resp = readResponse(t, conn)
	if resp.Error != nil {
		t.Fatalf("ping after parse error failed: %+v", resp.Error)
	}
}

func TestWebSocketHealthEndpoint(t *testing.T) {
	srv := NewWebSocketServer(newTestHandler(t), 0)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health protocol.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("unexpected health payload: %+v", health)
	}
}

func TestWebSocketProbeOnRoot(t *testing.T) {
	srv := NewWebSocketServer(newTestHandler(t), 0)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on handshake probe, got %d", resp.StatusCode)
	}

	var probe map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&probe); err != nil {
		t.Fatalf("decoding probe response: %v", err)
	}
	if probe["transport"] != "websocket" {
		t.Errorf("unexpected probe payload: %v", probe)
	}
}
