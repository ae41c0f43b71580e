package mcp

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/svarun115/googleplaces-mcp-server/internal/places"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools"
	"github.com/svarun115/googleplaces-mcp-server/pkg/protocol"
	"github.com/svarun115/googleplaces-mcp-server/pkg/version"
)

// echoTool returns its input unchanged; failTool simulates an upstream
// failure.
type echoTool struct{}

func (echoTool) Name() string            { return "echo" }
func (echoTool) Description() string     { return "Echo the arguments back" }
func (echoTool) Schema() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (echoTool) Execute(_ context.Context, input json.RawMessage) (interface{}, error) {
	var v map[string]interface{}
	if err := json.Unmarshal(input, &v); err != nil {
		return nil, err
	}
	return v, nil
}

type failTool struct{}

func (failTool) Name() string            { return "fail" }
func (failTool) Description() string     { return "Always fails" }
func (failTool) Schema() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (failTool) Execute(context.Context, json.RawMessage) (interface{}, error) {
	return nil, &places.UpstreamError{HTTPStatus: 403, Body: "quota exceeded"}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	registry := tools.NewRegistry()
	for _, tool := range []tools.Tool{echoTool{}, failTool{}} {
		if err := registry.Register(tool); err != nil {
			t.Fatalf("failed to register tool: %v", err)
		}
	}
	return NewHandler(registry)
}

func request(id interface{}, method string, params map[string]interface{}) *Request {
	return &Request{JSONRPC: "2.0", ID: id, Method: method, Params: params}
}

func TestUnknownMethod(t *testing.T) {
	h := newTestHandler(t)
	resp := h.Handle(context.Background(), request(1, "resources/list", nil))

	if resp == nil {
		t.Fatal("expected a response")
	}
	if resp.Error == nil || resp.Error.Code != protocol.CodeMethodNotFound {
		t.Errorf("expected method-not-found error, got %+v", resp.Error)
	}
	if resp.Result != nil {
		t.Error("error response must not carry a result")
	}
}

func TestInvalidEnvelope(t *testing.T) {
	h := newTestHandler(t)

	resp := h.Handle(context.Background(), &Request{JSONRPC: "1.0", ID: 1, Method: "ping"})
	if resp.Error == nil || resp.Error.Code != protocol.CodeInvalidRequest {
		t.Errorf("expected invalid-request error for jsonrpc 1.0, got %+v", resp.Error)
	}

	resp = h.Handle(context.Background(), &Request{JSONRPC: "2.0", ID: 2})
	if resp.Error == nil || resp.Error.Code != protocol.CodeInvalidRequest {
		t.Errorf("expected invalid-request error for missing method, got %+v", resp.Error)
	}
}

func TestNotificationsProduceNoResponse(t *testing.T) {
	h := newTestHandler(t)

	for _, method := range []string{"notifications/initialized", "ping", "tools/call"} {
		if resp := h.Handle(context.Background(), request(nil, method, nil)); resp != nil {
			t.Errorf("notification %q produced a response: %+v", method, resp)
		}
	}
}

func TestPing(t *testing.T) {
	h := newTestHandler(t)
	resp := h.Handle(context.Background(), request("ping-1", "ping", nil))

	if resp == nil || resp.Error != nil {
		t.Fatalf("expected a successful ping response, got %+v", resp)
	}
	if resp.ID != "ping-1" {
		t.Errorf("expected id echoed back, got %v", resp.ID)
	}
}

func TestInitializeNegotiation(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		client string
		want   string
	}{
		{version.SupportedProtocolVersions[0], version.SupportedProtocolVersions[0]},
		{"2024-11-05", "2024-11-05"},
		{"1999-01-01", version.ProtocolVersion},
		{"", version.ProtocolVersion},
	}
	for _, tc := range cases {
		resp := h.Handle(context.Background(), request(1, "initialize", map[string]interface{}{
			"protocolVersion": tc.client,
			"clientInfo":      map[string]interface{}{"name": "test", "version": "0.1"},
		}))
		if resp.Error != nil {
			t.Fatalf("initialize failed: %+v", resp.Error)
		}
		result := resp.Result.(map[string]interface{})
		if result["protocolVersion"] != tc.want {
			t.Errorf("client version %q: expected %q, got %v", tc.client, tc.want, result["protocolVersion"])
		}
		if _, ok := result["serverInfo"]; !ok {
			t.Error("expected serverInfo in initialize result")
		}
	}
}

func TestListToolsStable(t *testing.T) {
	h := newTestHandler(t)

	list := func() []string {
		resp := h.Handle(context.Background(), request(1, "tools/list", nil))
		if resp.Error != nil {
			t.Fatalf("tools/list failed: %+v", resp.Error)
		}
		result := resp.Result.(map[string]interface{})
		entries := result["tools"].([]map[string]interface{})
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e["name"].(string)
		}
		return names
	}

	first := list()
	second := list()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("tools/list is not stable across calls: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(first, []string{"echo", "fail"}) {
		t.Errorf("tools/list does not match the registry: %v", first)
	}
}

func TestCallToolMissingName(t *testing.T) {
	h := newTestHandler(t)
	resp := h.Handle(context.Background(), request(1, "tools/call", map[string]interface{}{
		"arguments": map[string]interface{}{"x": 1},
	}))

	if resp.Error == nil || resp.Error.Code != protocol.CodeInvalidParams {
		t.Errorf("expected invalid-params error, got %+v", resp.Error)
	}
}

func TestCallToolUnknownTool(t *testing.T) {
	h := newTestHandler(t)
	resp := h.Handle(context.Background(), request(1, "tools/call", map[string]interface{}{
		"name": "does_not_exist",
	}))

	if resp.Error == nil || resp.Error.Code != protocol.CodeMethodNotFound {
		t.Errorf("expected method-not-found error, got %+v", resp.Error)
	}
}

func TestCallToolWrapsResultInContent(t *testing.T) {
	h := newTestHandler(t)
	resp := h.Handle(context.Background(), request(7, "tools/call", map[string]interface{}{
		"name":      "echo",
		"arguments": map[string]interface{}{"greeting": "hello"},
	}))

	if resp.Error != nil {
		t.Fatalf("tools/call failed: %+v", resp.Error)
	}
	call := resp.Result.(CallToolResponse)
	if len(call.Content) != 1 || call.Content[0].Type != "text" {
		t.Fatalf("expected a single text content item, got %+v", call.Content)
	}

	var echoed map[string]interface{}
	if err := json.Unmarshal([]byte(call.Content[0].Text), &echoed); err != nil {
		t.Fatalf("content text is not JSON: %v", err)
	}
	if echoed["greeting"] != "hello" {
		t.Errorf("unexpected echoed payload: %v", echoed)
	}
}

func TestCallToolUpstreamFailure(t *testing.T) {
	h := newTestHandler(t)
	resp := h.Handle(context.Background(), request(1, "tools/call", map[string]interface{}{
		"name": "fail",
	}))

	if resp.Error == nil || resp.Error.Code != protocol.CodeInternalError {
		t.Fatalf("expected internal error, got %+v", resp.Error)
	}
	if resp.Result != nil {
		t.Error("error response must not carry a result")
	}
}
