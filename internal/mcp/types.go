package mcp

import "github.com/svarun115/googleplaces-mcp-server/pkg/protocol"

type Request = protocol.JSONRPCRequest
type Response = protocol.JSONRPCResponse

type ClientInfo struct {
	Name    string
	Version string
}

type ListToolsResponse struct {
	Tools []protocol.Tool `json:"tools"`
}

// TextContent is the single content item every tool call returns: the mapped
// result JSON-encoded into a text block.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type CallToolResponse struct {
	Content []TextContent `json:"content"`
}
