package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// SummaryTool handles the clarify_submit_summary MCP tool.
// It replaces a session's summary with a user-edited version and
// restarts the downstream workflow.
type SummaryTool struct {
	service *clarify.Service
}

// NewSummaryTool creates a SummaryTool backed by the given service.
func NewSummaryTool(service *clarify.Service) *SummaryTool {
	return &SummaryTool{service: service}
}

// Definition returns the MCP tool definition for registration.
func (t *SummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_submit_summary",
		mcp.WithDescription(
			"Submit a user-edited summary for a clarification session. "+
				"Overwrites the stored summary and starts a fresh refinement "+
				"workflow with the updated handoff text.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("The clarification session ID."),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description(
				"The edited summary as a JSON object with keys: title, "+
					"refined_idea, user_segments, core_pain_points, key_features, "+
					"constraints, success_metrics, risks, next_steps.",
			),
		),
	)
}

// Handle processes the clarify_submit_summary tool call.
func (t *SummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return errorResult("session_id is required")
	}

	var summary clarify.Summary
	if err := json.Unmarshal([]byte(req.GetString("summary", "")), &summary); err != nil {
		return errorResult("summary must be a valid JSON object")
	}

	return toolResult(t.service.SubmitSummary(sessionID, &summary))
}
