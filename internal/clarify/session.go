package clarify

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ProjectCreator creates the downstream project a finished session
// hands off to. Implemented by project.Manager.
type ProjectCreator interface {
	CreateProject(name, description, initialIdea, domain string) (string, error)
}

// WorkflowLauncher starts a downstream refinement workflow for a
// project. Implemented by workflow.Launcher.
type WorkflowLauncher interface {
	StartWorkflow(projectID, handoff, mode string) (string, error)
}

// workflowMode is the refinement mode passed downstream on handoff.
const workflowMode = "balanced"

// Sessions orchestrates the clarification lifecycle: question
// generation, answer collection, summary, and handoff.
type Sessions struct {
	store     Store
	questions QuestionSource
	summaries SummarySource
	projects  ProjectCreator
	workflows WorkflowLauncher
}

// NewSessions wires a session manager. questions and summaries may be
// nil, in which case the heuristic generators are used directly.
func NewSessions(store Store, questions QuestionSource, summaries SummarySource, projects ProjectCreator, workflows WorkflowLauncher) *Sessions {
	return &Sessions{
		store:     store,
		questions: questions,
		summaries: summaries,
		projects:  projects,
		workflows: workflows,
	}
}

// Start creates a session from the seed, generates its question set,
// and records the opening bot message. The seed's raw text must be
// non-empty.
func (m *Sessions) Start(ctx context.Context, seed Seed) (*Session, error) {
	if strings.TrimSpace(seed.RawText) == "" {
		return nil, fmt.Errorf("empty idea")
	}

	now := timeNow()
	session := &Session{
		ID:        NewSessionID(now),
		Status:    StatusRunning,
		Seed:      seed,
		CreatedAt: now.UTC().Format(time.RFC3339),
		UpdatedAt: now.UTC().Format(time.RFC3339),
	}
	session.Questions = GenerateQuestions(ctx, m.questions, seed.RawText)

	if first := NextUnanswered(session); first != nil {
		session.Messages = append(session.Messages, Message{
			Role:      RoleBot,
			SlotID:    first.SlotID,
			Content:   first.Text,
			Timestamp: nowRFC3339(),
		})
	}

	if err := m.store.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Load fetches a session by ID.
func (m *Sessions) Load(id string) (*Session, error) {
	return m.store.Load(id)
}

// NextUnanswered returns the pending question with the highest
// priority, breaking ties by original order. Nil when every question
// is answered. Pure read, never mutates the session.
func NextUnanswered(s *Session) *Question {
	var best *Question
	for i := range s.Questions {
		q := &s.Questions[i]
		if q.Answered() {
			continue
		}
		if best == nil || q.Priority > best.Priority {
			best = q
		}
	}
	return best
}

// Answer records an answer against a slot and returns the updated
// session. Answering an unknown or already-answered slot records the
// user message but changes no question state. The next pending bot
// question, if any, is appended to the message history.
func (m *Sessions) Answer(slotID, answer string, session *Session) (*Question, error) {
	for i := range session.Questions {
		q := &session.Questions[i]
		if q.SlotID == slotID && !q.Answered() {
			q.Answer = answer
			break
		}
	}

	session.Messages = append(session.Messages, Message{
		Role:      RoleUser,
		SlotID:    slotID,
		Content:   answer,
		Timestamp: nowRFC3339(),
	})

	next := NextUnanswered(session)
	if next != nil {
		session.Messages = append(session.Messages, Message{
			Role:      RoleBot,
			SlotID:    next.SlotID,
			Content:   next.Text,
			Timestamp: nowRFC3339(),
		})
	}

	session.UpdatedAt = nowRFC3339()
	if err := m.store.Save(session); err != nil {
		return nil, err
	}
	return next, nil
}

// Finish generates and attaches the summary, creates the downstream
// project if the session has none, starts the refinement workflow,
// and marks the session completed. Unanswered questions do not block
// finishing. Any handoff failure leaves the session running with its
// summary attached.
func (m *Sessions) Finish(ctx context.Context, session *Session) (string, error) {
	session.Summary = GenerateSummary(ctx, m.summaries, session)
	session.UpdatedAt = nowRFC3339()
	if err := m.store.Save(session); err != nil {
		return "", err
	}
	return m.handoff(session)
}

// SubmitSummary replaces the session summary with a user-edited one
// and restarts the downstream workflow with the new handoff text. A
// new workflow instance starts even if one already ran.
func (m *Sessions) SubmitSummary(session *Session, summary *Summary) (string, error) {
	if summary == nil {
		summary = &Summary{}
	}
	session.Summary = summary
	session.UpdatedAt = nowRFC3339()
	if err := m.store.Save(session); err != nil {
		return "", err
	}
	return m.handoff(session)
}

// handoff creates the project on first handoff, starts a workflow
// with the current handoff text, and marks the session completed.
func (m *Sessions) handoff(session *Session) (string, error) {
	text := HandoffText(session)

	if session.ProjectID == "" {
		domain := session.Seed.Domain
		if domain == "" {
			domain = "general"
		}
		name := "Idea refinement " + timeNow().UTC().Format("2006-01-02 15:04")
		projectID, err := m.projects.CreateProject(name, "Clarification handoff", text, domain)
		if err != nil {
			return "", fmt.Errorf("creating project: %w", err)
		}
		session.ProjectID = projectID
		if err := m.store.Save(session); err != nil {
			return "", err
		}
	}

	workflowID, err := m.workflows.StartWorkflow(session.ProjectID, text, workflowMode)
	if err != nil {
		return "", fmt.Errorf("starting workflow: %w", err)
	}

	session.Status = StatusCompleted
	session.WorkflowID = workflowID
	session.UpdatedAt = nowRFC3339()
	if err := m.store.Save(session); err != nil {
		return "", err
	}
	return workflowID, nil
}
