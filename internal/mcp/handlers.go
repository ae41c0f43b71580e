package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/svarun115/googleplaces-mcp-server/internal/logger"
	"github.com/svarun115/googleplaces-mcp-server/internal/places"
	"github.com/svarun115/googleplaces-mcp-server/internal/tools"
	"github.com/svarun115/googleplaces-mcp-server/pkg/protocol"
	"github.com/svarun115/googleplaces-mcp-server/pkg/version"
)

var log = logger.ForComponent("mcp")

// Handler routes JSON-RPC requests to the tool registry. One Handler is
// shared by every transport binding; it holds no per-request state, so
// concurrent Handle calls are safe.
type Handler struct {
	registry   *tools.Registry
	serverName string
}

func NewHandler(registry *tools.Registry) *Handler {
	return &Handler{
		registry:   registry,
		serverName: "Google Places MCP Server",
	}
}

// Handle dispatches one request and returns the response, or nil when the
// request is a notification and nothing may be sent back.
func (h *Handler) Handle(ctx context.Context, req *Request) *Response {
	if req.IsNotification() {
		h.handleNotification(req)
		return nil
	}

	resp := &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	if req.JSONRPC != "2.0" || req.Method == "" {
		resp.Error = &protocol.JSONRPCError{
			Code:    protocol.CodeInvalidRequest,
			Message: "Invalid request: jsonrpc must be \"2.0\" and method must be set",
		}
		return resp
	}

	switch req.Method {
	case "initialize":
		result, err := h.handleInitialize(req)
		if err != nil {
			resp.Error = errorFor(err)
		} else {
			resp.Result = result
		}
	case "ping":
		resp.Result = map[string]interface{}{}
	case "tools/list":
		resp.Result = h.handleListTools()
	case "tools/call":
		result, err := h.handleCallTool(ctx, req)
		if err != nil {
			resp.Error = errorFor(err)
		} else {
			resp.Result = result
		}
	default:
		resp.Error = &protocol.JSONRPCError{
			Code:    protocol.CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	return resp
}

// handleNotification processes fire-and-forget messages. Initialization
// state is recorded but never enforced: clients that skip initialize are
// still served.
func (h *Handler) handleNotification(req *Request) {
	switch req.Method {
	case "notifications/initialized":
		log.Debug("client reported initialized")
	case "ping":
	default:
		log.Debug("ignoring notification", "method", req.Method)
	}
}

func (h *Handler) handleInitialize(req *Request) (interface{}, error) {
	initReq := struct {
		ProtocolVersion string `json:"protocolVersion"`
		ClientInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"clientInfo"`
	}{}

	paramsData, err := json.Marshal(req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}
	if err := json.Unmarshal(paramsData, &initReq); err != nil {
		return nil, fmt.Errorf("failed to parse initialize request: %w", err)
	}

	negotiated := negotiateProtocolVersion(initReq.ProtocolVersion)
	log.Info("client initialized",
		"client", initReq.ClientInfo.Name,
		"client_version", initReq.ClientInfo.Version,
		"protocol_version", negotiated)

	return map[string]interface{}{
		"protocolVersion": negotiated,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    h.serverName,
			"version": version.Version,
		},
	}, nil
}

func negotiateProtocolVersion(clientVersion string) string {
	if version.IsSupported(clientVersion) {
		return clientVersion
	}
	return version.ProtocolVersion
}

func (h *Handler) handleListTools() interface{} {
	toolsList := h.registry.List()
	toolsData := make([]map[string]interface{}, len(toolsList))

	for i, t := range toolsList {
		var schema interface{}
		if err := json.Unmarshal(t.Schema(), &schema); err != nil {
			schema = json.RawMessage(t.Schema())
		}

		toolData := map[string]interface{}{
			"name":        t.Name(),
			"description": t.Description(),
			"inputSchema": schema,
		}

		if annotated, ok := t.(tools.AnnotatedTool); ok {
			if title := annotated.Title(); title != "" {
				toolData["title"] = title
			}
			if annotations := annotated.Annotations(); annotations != nil {
				toolData["annotations"] = annotations
			}
		}

		toolsData[i] = toolData
	}

	return map[string]interface{}{
		"tools": toolsData,
	}
}

func (h *Handler) handleCallTool(ctx context.Context, req *Request) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool execution panicked: %v", r)
			log.Error("tool panic recovered",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	callReq := struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}{}

	paramsData, err := json.Marshal(req.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}
	if err := json.Unmarshal(paramsData, &callReq); err != nil {
		return nil, fmt.Errorf("failed to parse tool call request: %w", err)
	}

	if callReq.Name == "" {
		return nil, tools.NewInvalidArgumentsError("tool name is required")
	}
	if len(callReq.Arguments) == 0 {
		callReq.Arguments = json.RawMessage(`{}`)
	}

	start := time.Now()
	toolResult, err := h.registry.Execute(ctx, callReq.Name, callReq.Arguments)
	if err != nil {
		log.Warn("tool call failed",
			"tool", callReq.Name,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return nil, err
	}
	log.Info("tool call succeeded",
		"tool", callReq.Name,
		"duration_ms", time.Since(start).Milliseconds())

	resultJSON, err := json.Marshal(toolResult)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return CallToolResponse{
		Content: []TextContent{
			{Type: "text", Text: string(resultJSON)},
		},
	}, nil
}

// errorFor converts a handler failure into a JSON-RPC error object,
// preserving the code a tool error carries.
func errorFor(err error) *protocol.JSONRPCError {
	var toolErr *tools.ToolError
	if errors.As(err, &toolErr) {
		return &protocol.JSONRPCError{
			Code:    toolErr.Code,
			Message: toolErr.Message,
		}
	}

	var upstreamErr *places.UpstreamError
	if errors.As(err, &upstreamErr) {
		return &protocol.JSONRPCError{
			Code:    protocol.CodeInternalError,
			Message: upstreamErr.Error(),
		}
	}

	return &protocol.JSONRPCError{
		Code:    protocol.CodeInternalError,
		Message: err.Error(),
	}
}
