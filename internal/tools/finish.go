package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// FinishTool handles the clarify_finish MCP tool.
// It closes a session: generates the summary, creates the downstream
// project, and starts the refinement workflow.
type FinishTool struct {
	service *clarify.Service
}

// NewFinishTool creates a FinishTool backed by the given service.
func NewFinishTool(service *clarify.Service) *FinishTool {
	return &FinishTool{service: service}
}

// Definition returns the MCP tool definition for registration.
func (t *FinishTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_finish",
		mcp.WithDescription(
			"Finish a clarification session. Generates a structured summary "+
				"from the idea and collected answers, creates the downstream "+
				"project, and starts a refinement workflow. Unanswered "+
				"questions do not block finishing.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The clarification session ID."),
		),
	)
}

// Handle processes the clarify_finish tool call.
func (t *FinishTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return errorResult("session_id is required")
	}
	return toolResult(t.service.Finish(ctx, sessionID))
}
