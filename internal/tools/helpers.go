// Package tools implements the MCP tool handlers for the
// clarification dialogue.
//
// Each tool is a struct that receives the clarify service via its
// constructor (DIP) and exposes Definition/Handle in the shape the
// mcp-go server registers.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on the clarify.Service, not on stores or providers
// - Every tool returns the same JSON envelope: {success, data?, error?}
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// toolResult renders a service envelope as the tool's text content.
// Failures still come back as a well-formed envelope so callers can
// always parse the same shape.
func toolResult(resp *clarify.Response) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	if !resp.Success {
		return mcp.NewToolResultError(string(data)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult builds a failure envelope for input errors caught before
// the service runs.
func errorResult(msg string) (*mcp.CallToolResult, error) {
	return toolResult(&clarify.Response{Success: false, Error: msg})
}
