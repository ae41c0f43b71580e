package transport

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
)

// startStdioPair serves the stdio loop over one end of an in-memory pipe and
// returns a jsonrpc2 client connected to the other end.
func startStdioPair(t *testing.T) *jsonrpc2.Conn {
	t.Helper()

	serverSide, clientSide := net.Pipe()

	srv := NewStdioServer(newTestHandler(t))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go srv.Serve(ctx, serverSide)

	stream := jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.PlainObjectCodec{})
	client := jsonrpc2.NewConn(ctx, stream, noopHandler{})
	t.Cleanup(func() { client.Close() })
	return client
}

type noopHandler struct{}

func (noopHandler) Handle(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) {}

func TestStdioPing(t *testing.T) {
	client := startStdioPair(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result map[string]interface{}
	if err := client.Call(ctx, "ping", nil, &result); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestStdioToolsList(t *testing.T) {
	client := startStdioPair(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := client.Call(ctx, "tools/list", nil, &result); err != nil {
		t.Fatalf("tools/list failed: %v", err)
	}
	if len(result.Tools) != 1 || result.Tools[0].Name != "noop" {
		t.Errorf("unexpected tool list: %+v", result.Tools)
	}
}

func TestStdioToolCall(t *testing.T) {
	client := startStdioPair(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	params := map[string]interface{}{
		"name":      "noop",
		"arguments": map[string]interface{}{},
	}
	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := client.Call(ctx, "tools/call", params, &result); err != nil {
		t.Fatalf("tools/call failed: %v", err)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("expected a single text content item, got %+v", result.Content)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(result.Content[0].Text), &payload); err != nil {
		t.Fatalf("content text is not JSON: %v", err)
	}
	if payload["ok"] != "true" {
		t.Errorf("unexpected tool payload: %v", payload)
	}
}

func TestStdioUnknownMethod(t *testing.T) {
	client := startStdioPair(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result interface{}
	err := client.Call(ctx, "resources/list", nil, &result)
	if err == nil {
		t.Fatal("expected an error for an unknown method")
	}
	rpcErr, ok := err.(*jsonrpc2.Error)
	if !ok {
		t.Fatalf("expected *jsonrpc2.Error, got %T: %v", err, err)
	}
	if rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("expected code %d, got %d", jsonrpc2.CodeMethodNotFound, rpcErr.Code)
	}
}

func TestStdioNotificationProducesNothing(t *testing.T) {
	client := startStdioPair(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Notify(ctx, "notifications/initialized", nil); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	// The stream stays usable and the next reply correlates to the ping,
	// proving the notification got no response of its own.
	var result map[string]interface{}
	if err := client.Call(ctx, "ping", nil, &result); err != nil {
		t.Fatalf("ping after notification failed: %v", err)
	}
}
