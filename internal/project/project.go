// Package project manages the downstream project records that a
// finished clarification session hands off to.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project is the record a refinement workflow runs against.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	InitialIdea string `json:"initial_idea"`
	Domain      string `json:"domain"`
	CreatedAt   string `json:"created_at"`
}

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Manager persists projects as one JSON document each under a root
// directory.
type Manager struct {
	root string
}

// NewManager creates a filesystem-backed project manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{root: dir}
}

func (m *Manager) projectPath(id string) string {
	return filepath.Join(m.root, id+".json")
}

// CreateProject validates and persists a new project, returning its
// generated ID.
func (m *Manager) CreateProject(name, description, initialIdea, domain string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("project name is empty")
	}
	if domain == "" {
		domain = "general"
	}

	p := &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		InitialIdea: initialIdea,
		Domain:      domain,
		CreatedAt:   timeNow().UTC().Format(time.RFC3339),
	}

	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return "", fmt.Errorf("creating project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling project: %w", err)
	}
	if err := os.WriteFile(m.projectPath(p.ID), data, 0o644); err != nil {
		return "", fmt.Errorf("writing project file: %w", err)
	}
	return p.ID, nil
}

// Load reads a project by ID.
func (m *Manager) Load(id string) (*Project, error) {
	data, err := os.ReadFile(m.projectPath(id))
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}
	return &p, nil
}
