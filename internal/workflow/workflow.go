// Package workflow records the refinement workflow runs started when a
// clarification session hands off. The actual multi-agent refinement
// runs elsewhere; this package owns the run records it picks up.
package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Run is one workflow instance for a project.
type Run struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	InitialIdea string `json:"initial_idea"`
	Mode        string `json:"mode"`
	Stage       string `json:"stage"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Launcher creates workflow run records under a root directory.
type Launcher struct {
	root string
}

// NewLauncher creates a filesystem-backed workflow launcher.
func NewLauncher(dir string) *Launcher {
	return &Launcher{root: dir}
}

func (l *Launcher) runPath(id string) string {
	return filepath.Join(l.root, id+".json")
}

// StartWorkflow persists a new run record and returns its ID. Each
// call starts a fresh instance, even for a project with earlier runs.
func (l *Launcher) StartWorkflow(projectID, handoff, mode string) (string, error) {
	if projectID == "" {
		return "", fmt.Errorf("project id is empty")
	}

	now := timeNow()
	tag := projectID
	if len(tag) > 8 {
		tag = tag[:8]
	}
	run := &Run{
		ID:          fmt.Sprintf("session_%s_%s", now.Format("20060102_150405"), tag),
		ProjectID:   projectID,
		InitialIdea: handoff,
		Mode:        mode,
		Stage:       "questioning",
		Status:      "running",
		CreatedAt:   now.UTC().Format(time.RFC3339),
	}

	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return "", fmt.Errorf("creating workflow directory: %w", err)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling workflow run: %w", err)
	}
	if err := os.WriteFile(l.runPath(run.ID), data, 0o644); err != nil {
		return "", fmt.Errorf("writing workflow run: %w", err)
	}
	return run.ID, nil
}

// Load reads a run record by ID.
func (l *Launcher) Load(id string) (*Run, error) {
	data, err := os.ReadFile(l.runPath(id))
	if err != nil {
		return nil, fmt.Errorf("reading workflow run: %w", err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parsing workflow run: %w", err)
	}
	return &run, nil
}
