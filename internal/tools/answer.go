package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// AnswerTool handles the clarify_answer MCP tool.
// It records the user's answer to one question slot and returns the
// next question to ask.
type AnswerTool struct {
	service *clarify.Service
}

// NewAnswerTool creates an AnswerTool backed by the given service.
func NewAnswerTool(service *clarify.Service) *AnswerTool {
	return &AnswerTool{service: service}
}

// Definition returns the MCP tool definition for registration.
func (t *AnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_answer",
		mcp.WithDescription(
			"Record an answer to a clarification question. Returns the "+
				"next unanswered question (highest priority first), the "+
				"remaining pending count, and whether the session is complete.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The clarification session ID from clarify_start."),
		),
		mcp.WithString("slot_id",
			mcp.Required(),
			mcp.Description("Slot ID of the question being answered."),
		),
		mcp.WithString("answer",
			mcp.Required(),
			mcp.Description("The user's answer text."),
		),
	)
}

// Handle processes the clarify_answer tool call.
func (t *AnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	slotID := req.GetString("slot_id", "")
	if sessionID == "" || slotID == "" {
		return errorResult("session_id and slot_id are required")
	}

	return toolResult(t.service.SubmitAnswer(sessionID, slotID, req.GetString("answer", "")))
}
