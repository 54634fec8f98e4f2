package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// StartTool handles the clarify_start MCP tool.
// It opens a clarification session for a raw idea and returns the
// generated question set.
type StartTool struct {
	service *clarify.Service
}

// NewStartTool creates a StartTool backed by the given service.
func NewStartTool(service *clarify.Service) *StartTool {
	return &StartTool{service: service}
}

// Definition returns the MCP tool definition for registration.
func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("clarify_start",
		mcp.WithDescription(
			"Start a clarification session for a raw product idea. "+
				"Generates prioritized clarification questions and returns "+
				"the session ID plus the first question to ask.",
		),
		mcp.WithString("idea",
			mcp.Required(),
			mcp.Description("The raw idea text to clarify."),
		),
		mcp.WithString("domain",
			mcp.Description("Optional domain label, e.g. 'education' or 'fintech'."),
		),
		mcp.WithString("hints",
			mcp.Description("Optional comma-separated context hints."),
		),
	)
}

// Handle processes the clarify_start tool call.
func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idea := req.GetString("idea", "")
	if strings.TrimSpace(idea) == "" {
		return errorResult("idea is required")
	}

	seed := clarify.Seed{
		RawText: idea,
		Domain:  req.GetString("domain", ""),
	}
	for _, h := range strings.Split(req.GetString("hints", ""), ",") {
		if h = strings.TrimSpace(h); h != "" {
			seed.Hints = append(seed.Hints, h)
		}
	}

	return toolResult(t.service.StartSession(ctx, seed))
}
