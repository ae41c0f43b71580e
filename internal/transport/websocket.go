package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/svarun115/googleplaces-mcp-server/internal/logger"
	"github.com/svarun115/googleplaces-mcp-server/internal/mcp"
	"github.com/svarun115/googleplaces-mcp-server/pkg/protocol"
	"github.com/svarun115/googleplaces-mcp-server/pkg/version"
)

// WebSocketServer accepts WebSocket upgrades and serves one JSON-RPC
// exchange per text message. Connections stay open across many
// request/response cycles; a bad message gets an error response on the same
// socket, never a close.
type WebSocketServer struct {
	handler  *mcp.Handler
	port     int
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewWebSocketServer(handler *mcp.Handler, port int) *WebSocketServer {
	return &WebSocketServer{
		handler: handler,
		port:    port,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Tool-invocation clients connect from anywhere.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logger.ForComponent("websocket"),
	}
}

func (s *WebSocketServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("websocket transport listening", "port", s.port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("websocket server: %w", err)
	}
	return nil
}

func (s *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/health":
		writeJSON(w, http.StatusOK, protocol.HealthResponse{
			Status:  "ok",
			Version: version.Version,
		})
	case websocket.IsWebSocketUpgrade(r):
		s.serveConn(w, r)
	case r.URL.Path == "/" && (r.Method == http.MethodGet || r.Method == http.MethodPost):
		// Handshake probe from clients checking the endpoint before
		// upgrading.
		writeJSON(w, http.StatusOK, map[string]string{
			"name":      "Google Places MCP Server",
			"version":   version.Version,
			"transport": "websocket",
		})
	default:
		http.NotFound(w, r)
	}
}

// wsConn serializes writes; gorilla connections allow only one concurrent
// writer while message handlers run concurrently.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeResponse(resp *mcp.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *WebSocketServer) serveConn(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	s.log.Info("websocket client connected", "remote", r.RemoteAddr)

	wc := &wsConn{conn: conn}
	ctx := r.Context()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("websocket read failed", "error", err, "remote", r.RemoteAddr)
			} else {
				s.log.Info("websocket client disconnected", "remote", r.RemoteAddr)
			}
			return
		}

		// Each message is dispatched independently: a slow tool call does
		// not block the next message, and responses may arrive out of
		// request order.
		go s.handleMessage(ctx, wc, data)
	}
}

func (s *WebSocketServer) handleMessage(ctx context.Context, wc *wsConn, data []byte) {
	var req mcp.Request
	if err := json.Unmarshal(data, &req); err != nil {
		wc.writeResponse(&mcp.Response{
			JSONRPC: "2.0",
			Error: &protocol.JSONRPCError{
				Code:    protocol.CodeParseError,
				Message: "Parse error",
			},
		})
		return
	}

	resp := s.handler.Handle(ctx, &req)
	if resp == nil {
		return
	}
	if err := wc.writeResponse(resp); err != nil {
		s.log.Warn("websocket write failed", "error", err)
	}
}
