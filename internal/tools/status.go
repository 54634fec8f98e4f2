package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// StatusTool handles the clarify_status MCP tool.
type StatusTool struct {
	service *clarify.Service
}

// NewStatusTool creates a StatusTool backed by the given service.
func NewStatusTool(service *clarify.Service) *StatusTool {
	return &StatusTool{service: service}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_status",
		mcp.WithDescription(
			"Show the full state of a clarification session: questions, "+
				"answers, message history, summary, and handoff IDs.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The clarification session ID."),
		),
	)
}

// Handle processes the clarify_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return errorResult("session_id is required")
	}
	return toolResult(t.service.GetStatus(sessionID))
}
