package clarify

import (
	"context"
	"log"
)

// Response is the uniform envelope every exposed operation returns.
// Either Data or Error is set, never both. Data is operation-specific:
// a keyed object for most operations, the full session document for
// GetStatus.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(data any) *Response {
	return &Response{Success: true, Data: data}
}

func fail(err error) *Response {
	return &Response{Success: false, Error: err.Error()}
}

// Service exposes the clarification operations behind the uniform
// response envelope. Internal failures come back as envelope errors,
// they never escape as panics.
type Service struct {
	sessions *Sessions
}

// NewService wraps a session manager.
func NewService(sessions *Sessions) *Service {
	return &Service{sessions: sessions}
}

// StartSession opens a session for the seed and returns the generated
// question set plus the first question to ask.
func (s *Service) StartSession(ctx context.Context, seed Seed) *Response {
	session, err := s.sessions.Start(ctx, seed)
	if err != nil {
		log.Printf("start session failed: %v", err)
		return fail(err)
	}
	return ok(map[string]any{
		"session_id":    session.ID,
		"questions":     session.Questions,
		"next_question": NextUnanswered(session),
	})
}

// SubmitAnswer records an answer and returns the next question along
// with completion state.
func (s *Service) SubmitAnswer(sessionID, slotID, answer string) *Response {
	session, err := s.sessions.Load(sessionID)
	if err != nil {
		log.Printf("submit answer failed: %v", err)
		return fail(err)
	}
	next, err := s.sessions.Answer(slotID, answer, session)
	if err != nil {
		log.Printf("submit answer failed: %v", err)
		return fail(err)
	}
	return ok(map[string]any{
		"completed":     next == nil,
		"next_question": next,
		"pending":       session.PendingCount(),
	})
}

// GetStatus returns the full session document.
func (s *Service) GetStatus(sessionID string) *Response {
	session, err := s.sessions.Load(sessionID)
	if err != nil {
		return fail(err)
	}
	return ok(session)
}

// Finish closes the session: summary, project, workflow handoff.
func (s *Service) Finish(ctx context.Context, sessionID string) *Response {
	session, err := s.sessions.Load(sessionID)
	if err != nil {
		log.Printf("finish failed: %v", err)
		return fail(err)
	}
	workflowID, err := s.sessions.Finish(ctx, session)
	if err != nil {
		log.Printf("finish failed: %v", err)
		return fail(err)
	}
	return ok(map[string]any{"workflow_id": workflowID})
}

// SubmitSummary applies a user-edited summary and restarts the
// downstream workflow.
func (s *Service) SubmitSummary(sessionID string, summary *Summary) *Response {
	session, err := s.sessions.Load(sessionID)
	if err != nil {
		log.Printf("submit summary failed: %v", err)
		return fail(err)
	}
	workflowID, err := s.sessions.SubmitSummary(session, summary)
	if err != nil {
		log.Printf("submit summary failed: %v", err)
		return fail(err)
	}
	return ok(map[string]any{"workflow_id": workflowID})
}
