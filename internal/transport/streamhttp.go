package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/svarun115/googleplaces-mcp-server/internal/logger"
	"github.com/svarun115/googleplaces-mcp-server/internal/mcp"
	"github.com/svarun115/googleplaces-mcp-server/pkg/protocol"
	"github.com/svarun115/googleplaces-mcp-server/pkg/version"
)

const (
	// maxSessions bounds the session table; the oldest session is evicted
	// when a new client would exceed it.
	maxSessions = 1024

	keepaliveInterval = 15 * time.Second

	maxBodyBytes = 4 << 20
)

// HTTPServer is the streamable HTTP binding: POST /mcp carries JSON-RPC
// requests, GET /mcp opens a server-push event stream for keepalives, and
// DELETE /mcp ends a session.
type HTTPServer struct {
	handler  *mcp.Handler
	port     int
	sessions *lru.Cache[string, time.Time]
	log      *slog.Logger
}

func NewHTTPServer(handler *mcp.Handler, port int) (*HTTPServer, error) {
	sessions, err := lru.New[string, time.Time](maxSessions)
	if err != nil {
		return nil, fmt.Errorf("creating session table: %w", err)
	}
	return &HTTPServer{
		handler:  handler,
		port:     port,
		sessions: sessions,
		log:      logger.ForComponent("http"),
	}, nil
}

func (s *HTTPServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.handleMCP)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("http transport listening", "port", s.port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// statusRecorder captures the status code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *HTTPServer) handleMCP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w}

	switch r.Method {
	case http.MethodPost:
		s.handlePost(rec, r)
	case http.MethodGet:
		s.handleStream(rec, r)
	case http.MethodDelete:
		s.handleDeleteSession(rec, r)
	default:
		http.Error(rec, "Method not allowed", http.StatusMethodNotAllowed)
	}

	s.log.Info("http request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration_ms", time.Since(start).Milliseconds())
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, protocol.HealthResponse{
		Status:  "ok",
		Version: version.Version,
	})
}

func (s *HTTPServer) handlePost(w http.ResponseWriter, r *http.Request) {
	if v := r.Header.Get("MCP-Protocol-Version"); v != "" && !version.IsSupported(v) {
		writeJSON(w, http.StatusBadRequest, &mcp.Response{
			JSONRPC: "2.0",
			Error: &protocol.JSONRPCError{
				Code:    protocol.CodeInvalidRequest,
				Message: fmt.Sprintf("Unsupported protocol version: %s", v),
			},
		})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	var req mcp.Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, &mcp.Response{
			JSONRPC: "2.0",
			Error: &protocol.JSONRPCError{
				Code:    protocol.CodeParseError,
				Message: "Parse error",
			},
		})
		return
	}

	// Notifications are acknowledged at the HTTP layer, never answered
	// with a JSON-RPC body.
	if req.IsNotification() {
		s.handler.Handle(r.Context(), &req)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if req.Method != "initialize" {
		if sid := r.Header.Get("Mcp-Session-Id"); sid != "" && !s.sessions.Contains(sid) {
			writeJSON(w, http.StatusOK, &mcp.Response{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error: &protocol.JSONRPCError{
					Code:    protocol.CodeInvalidRequest,
					Message: "Invalid session",
				},
			})
			return
		}
	}

	resp := s.handler.Handle(r.Context(), &req)

	if req.Method == "initialize" && resp.Error == nil {
		sid := uuid.NewString()
		s.sessions.Add(sid, time.Now())
		w.Header().Set("Mcp-Session-Id", sid)
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleStream opens a text/event-stream channel. It carries no tool
// traffic, only periodic keepalive comments, until the client disconnects.
func (s *HTTPServer) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *HTTPServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := r.Header.Get("Mcp-Session-Id")
	if sid == "" {
		http.Error(w, "Missing Mcp-Session-Id", http.StatusBadRequest)
		return
	}
	s.sessions.Remove(sid)
	w.WriteHeader(http.StatusNoContent)
}
