// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete
// implementations — config, stores, the provider chain — and injects
// them into the tools that depend on abstractions. No business logic
// lives here, only wiring.
package server

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/clarion-dev/clarion/internal/clarify"
	"github.com/clarion-dev/clarion/internal/config"
	"github.com/clarion-dev/clarion/internal/project"
	"github.com/clarion-dev/clarion/internal/provider"
	"github.com/clarion-dev/clarion/internal/storage"
	"github.com/clarion-dev/clarion/internal/tools"
	"github.com/clarion-dev/clarion/internal/workflow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// noop is the cleanup returned when there is nothing to close.
func noop() {}

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
//
// The returned cleanup function closes the session store's database
// connection and must be called on shutdown (typically via defer). It
// is always non-nil.
func New() (*server.MCPServer, func(), error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, noop, fmt.Errorf("loading config: %w", err)
	}

	// --- Session store ---
	//
	// SQLite is the default; "file" keeps each session as a JSON
	// document, useful for debugging and tests.

	var store clarify.Store
	cleanup := noop
	switch cfg.Store {
	case "file":
		store = clarify.NewFileStore(filepath.Join(cfg.DataDir, "sessions"))
	default:
		sqlStore, err := storage.Open(filepath.Join(cfg.DataDir, "clarion.db"))
		if err != nil {
			return nil, noop, fmt.Errorf("opening session store: %w", err)
		}
		store = sqlStore
		cleanup = func() {
			if err := sqlStore.Close(); err != nil {
				log.Printf("WARNING: closing session store: %v", err)
			}
		}
	}

	// --- Provider chain ---
	//
	// Fixed priority order. Unconfigured providers stay in the chain
	// and skip themselves at call time.

	chain := provider.NewChain(
		provider.NewOpenAICompatible(provider.OpenAIConfig{
			Name:    "qwen",
			BaseURL: cfg.Qwen.BaseURL,
			APIKey:  cfg.Qwen.APIKey,
			Model:   cfg.Qwen.Model,
		}),
		provider.NewOpenAICompatible(provider.OpenAIConfig{
			Name:    "deepseek",
			BaseURL: cfg.DeepSeek.BaseURL,
			APIKey:  cfg.DeepSeek.APIKey,
			Model:   cfg.DeepSeek.Model,
		}),
		provider.NewOpenAICompatible(provider.OpenAIConfig{
			Name:    "openai",
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
		}),
		provider.NewAnthropic(provider.AnthropicConfig{
			BaseURL: cfg.Anthropic.BaseURL,
			APIKey:  cfg.Anthropic.APIKey,
			Model:   cfg.Anthropic.Model,
		}),
	)

	// --- Clarification service ---

	sessions := clarify.NewSessions(
		store,
		chain,
		chain,
		project.NewManager(filepath.Join(cfg.DataDir, "projects")),
		workflow.NewLauncher(filepath.Join(cfg.DataDir, "workflows")),
	)
	service := clarify.NewService(sessions)

	// --- MCP server ---

	s := server.NewMCPServer(
		"clarion",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	startTool := tools.NewStartTool(service)
	s.AddTool(startTool.Definition(), startTool.Handle)

	answerTool := tools.NewAnswerTool(service)
	s.AddTool(answerTool.Definition(), answerTool.Handle)

	statusTool := tools.NewStatusTool(service)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	finishTool := tools.NewFinishTool(service)
	s.AddTool(finishTool.Definition(), finishTool.Handle)

	summaryTool := tools.NewSummaryTool(service)
	s.AddTool(summaryTool.Definition(), summaryTool.Handle)

	return s, cleanup, nil
}

func serverInstructions() string {
	return `Clarion turns vague product ideas into clarified, structured briefs.

Flow:
1. clarify_start with the raw idea — returns prioritized questions and the first one to ask.
2. clarify_answer for each question the user answers. Questions are asked highest priority first; answering is optional.
3. clarify_finish when the user is done — generates a structured summary and hands off to a refinement workflow.
4. clarify_submit_summary if the user edits the summary afterwards — restarts the workflow with the updated brief.

Use clarify_status at any point to inspect the full session.`
}
