// Package clarify implements the clarification dialogue engine.
//
// Given a raw, underspecified idea it produces a ranked set of
// clarification questions, tracks answers across a multi-turn session,
// and finally composes a structured summary that is handed off to a
// downstream workflow. Question generation and summarization go through
// a provider fallback chain with a deterministic heuristic as the
// terminal fallback, so the pipeline as a whole cannot fail because of
// provider issues.
//
// Design principles mirror the rest of the codebase:
// - SRP: types, normalization, store, session manager, and the exposed
//   service live in separate files
// - DIP: Store, ProjectCreator, and WorkflowLauncher are interfaces;
//   the engine depends on abstractions, not on concrete storage or
//   workflow implementations
package clarify

import (
	"fmt"
	"strings"
	"time"
)

// --- Session status enum ---

// Status tracks the lifecycle of a clarification session.
// The only transition is running → completed; completed is terminal.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
)

// --- Message roles ---

// Role identifies who produced a session message.
type Role string

const (
	RoleBot  Role = "bot"
	RoleUser Role = "user"
)

// --- Core data structures ---

// Question is a single clarification question within a session.
// Identity is SlotID, which is unique within the session. Answer is set
// once by answer submission and never cleared.
type Question struct {
	SlotID   string `json:"slot_id"`
	Text     string `json:"text"`
	Priority int    `json:"priority"` // 1-10, higher asks earlier
	Category string `json:"category"`
	Answer   string `json:"answer,omitempty"`
}

// Answered reports whether the question has received an answer.
func (q Question) Answered() bool {
	return q.Answer != ""
}

// Seed is the raw idea and optional context that starts a session.
type Seed struct {
	RawText string   `json:"raw_text"`
	Domain  string   `json:"domain,omitempty"`
	Hints   []string `json:"hints,omitempty"`
}

// Message is one entry in the session's conversation history.
type Message struct {
	Role      Role   `json:"role"`
	SlotID    string `json:"slot_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"` // RFC3339
}

// Summary is the structured result of a finished clarification session.
// All fields are optional; providers may fill only a subset.
type Summary struct {
	Title          string   `json:"title,omitempty"`
	RefinedIdea    string   `json:"refined_idea,omitempty"`
	UserSegments   []string `json:"user_segments,omitempty"`
	PainPoints     []string `json:"core_pain_points,omitempty"`
	KeyFeatures    []string `json:"key_features,omitempty"`
	Constraints    []string `json:"constraints,omitempty"`
	SuccessMetrics []string `json:"success_metrics,omitempty"`
	Risks          []string `json:"risks,omitempty"`
	NextSteps      []string `json:"next_steps,omitempty"`
	QAPairs        []string `json:"qa_pairs,omitempty"`
}

// Session is the root document for one clarification attempt, persisted
// as a whole after every mutation. The "current question" is not stored:
// it is derived as the highest-priority unanswered question.
type Session struct {
	ID         string     `json:"id"`
	Status     Status     `json:"status"`
	Seed       Seed       `json:"seed"`
	Questions  []Question `json:"questions"`
	Messages   []Message  `json:"messages"`
	Summary    *Summary   `json:"summary,omitempty"`
	ProjectID  string     `json:"project_id,omitempty"`
	WorkflowID string     `json:"workflow_id,omitempty"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`
}

// PendingCount returns the number of unanswered questions.
func (s *Session) PendingCount() int {
	n := 0
	for _, q := range s.Questions {
		if !q.Answered() {
			n++
		}
	}
	return n
}

// --- Session ID generation ---

// sessionIDPrefix marks clarification session identifiers.
const sessionIDPrefix = "clar"

// NewSessionID returns a time-derived session identifier, e.g.
// "clar_20260115_142530_123456". Microsecond precision keeps IDs unique
// for sessions created in the same second.
func NewSessionID(t time.Time) string {
	return fmt.Sprintf("%s_%s_%06d",
		sessionIDPrefix,
		t.Format("20060102_150405"),
		t.Nanosecond()/1000,
	)
}

// ValidateSessionID rejects identifiers that cannot have been produced
// by NewSessionID. Store implementations use session IDs as filenames
// or keys, so stray path characters are refused here.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id is empty")
	}
	if !strings.HasPrefix(id, sessionIDPrefix+"_") {
		return fmt.Errorf("invalid session id %q", id)
	}
	if strings.ContainsAny(id, "/\\.") {
		return fmt.Errorf("invalid session id %q", id)
	}
	return nil
}
