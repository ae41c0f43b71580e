package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/svarun115/googleplaces-mcp-server/internal/logger"
	"github.com/svarun115/googleplaces-mcp-server/internal/mcp"
)

// StdioServer serves newline-delimited JSON-RPC over the process's standard
// streams. One process instance serves one client; the server exits when
// stdin closes.
type StdioServer struct {
	handler *mcp.Handler
	log     *slog.Logger
}

func NewStdioServer(handler *mcp.Handler) *StdioServer {
	return &StdioServer{
		handler: handler,
		log:     logger.ForComponent("stdio"),
	}
}

// Run serves until stdin closes or ctx is cancelled.
func (s *StdioServer) Run(ctx context.Context) error {
	return s.Serve(ctx, stdrwc{})
}

// Serve runs the JSON-RPC loop over an arbitrary stream. Requests are
// dispatched asynchronously, so responses may interleave out of arrival
// order when calls overlap.
func (s *StdioServer) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.PlainObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.AsyncHandler(jsonrpc2.HandlerWithError(s.handle)))
	defer conn.Close()

	s.log.Info("stdio transport ready")

	select {
	case <-conn.DisconnectNotify():
		s.log.Info("stdio stream closed")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handle bridges one jsonrpc2 request into the shared dispatcher.
// Notifications return (nil, nil) and jsonrpc2 sends nothing back for them.
func (s *StdioServer) handle(ctx context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	r := &mcp.Request{
		JSONRPC: "2.0",
		Method:  req.Method,
	}
	if !req.Notif {
		if req.ID.IsString {
			r.ID = req.ID.Str
		} else {
			r.ID = req.ID.Num
		}
	}
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &r.Params); err != nil {
			return nil, &jsonrpc2.Error{
				Code:    jsonrpc2.CodeInvalidParams,
				Message: "params must be an object",
			}
		}
	}

	resp := s.handler.Handle(ctx, r)
	if resp == nil {
		return nil, nil
	}
	if resp.Error != nil {
		return nil, &jsonrpc2.Error{
			Code:    int64(resp.Error.Code),
			Message: resp.Error.Message,
		}
	}
	return resp.Result, nil
}

// stdrwc adapts the process's standard streams to io.ReadWriteCloser.
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}
