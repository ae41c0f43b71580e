package tools

import (
	"fmt"

	"github.com/svarun115/googleplaces-mcp-server/pkg/protocol"
)

// ToolError carries a JSON-RPC error code so the dispatcher can surface tool
// failures with the right code instead of a blanket internal error.
type ToolError struct {
	Code    int
	Message string
}

func (e *ToolError) Error() string {
	return e.Message
}

func NewToolNotFoundError(name string) *ToolError {
	return &ToolError{
		Code:    protocol.CodeMethodNotFound,
		Message: fmt.Sprintf("Tool not found: %s", name),
	}
}

// NewInvalidArgumentsError reports a missing or malformed required argument.
// Raised before any upstream call is attempted.
func NewInvalidArgumentsError(format string, args ...interface{}) *ToolError {
	return &ToolError{
		Code:    protocol.CodeInvalidParams,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewToolExecutionError(name string, err error) *ToolError {
	return &ToolError{
		Code:    protocol.CodeInternalError,
		Message: fmt.Sprintf("Error executing tool %s: %v", name, err),
	}
}
