package clarify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// --- Fakes for the downstream handoff ---

type fakeProjects struct {
	created int
	lastID  string
	err     error
}

func (f *fakeProjects) CreateProject(name, description, initialIdea, domain string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created++
	f.lastID = "proj-1"
	return f.lastID, nil
}

type fakeWorkflows struct {
	started  int
	handoffs []string
	err      error
}

func (f *fakeWorkflows) StartWorkflow(projectID, handoff, mode string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.started++
	f.handoffs = append(f.handoffs, handoff)
	return "wf-1", nil
}

func testManager(t *testing.T) (*Sessions, *fakeProjects, *fakeWorkflows) {
	t.Helper()
	projects := &fakeProjects{}
	workflows := &fakeWorkflows{}
	mgr := NewSessions(NewFileStore(t.TempDir()), nil, nil, projects, workflows)
	return mgr, projects, workflows
}

func withFixedTime(t *testing.T) {
	t.Helper()
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 42000, time.UTC)
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = time.Now })
}

// --- Start ---

func TestStartCreatesRunningSession(t *testing.T) {
	withFixedTime(t)
	mgr, _, _ := testManager(t)

	s, err := mgr.Start(context.Background(), Seed{RawText: "A study planner"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Status != StatusRunning {
		t.Errorf("status = %s, want running", s.Status)
	}
	if s.ID != "clar_20260314_093000_000042" {
		t.Errorf("ID = %s", s.ID)
	}
	if len(s.Questions) == 0 {
		t.Fatal("no questions generated")
	}
	// Opening bot message records the first question.
	if len(s.Messages) != 1 || s.Messages[0].Role != RoleBot {
		t.Fatalf("messages = %+v, want one bot message", s.Messages)
	}
	first := NextUnanswered(s)
	if s.Messages[0].SlotID != first.SlotID {
		t.Errorf("opening message slot = %s, want %s", s.Messages[0].SlotID, first.SlotID)
	}

	// Persisted immediately.
	loaded, err := mgr.Load(s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Questions) != len(s.Questions) {
		t.Errorf("persisted %d questions, want %d", len(loaded.Questions), len(s.Questions))
	}
}

func TestStartRejectsEmptyIdea(t *testing.T) {
	mgr, _, _ := testManager(t)
	if _, err := mgr.Start(context.Background(), Seed{RawText: "   "}); err == nil {
		t.Error("expected error for empty idea")
	}
}

// --- NextUnanswered ---

func TestNextUnansweredMaxPriority(t *testing.T) {
	s := &Session{Questions: []Question{
		{SlotID: "a", Text: "qa", Priority: 6},
		{SlotID: "b", Text: "qb", Priority: 9},
		{SlotID: "c", Text: "qc", Priority: 9},
	}}
	next := NextUnanswered(s)
	if next.SlotID != "b" {
		t.Errorf("next = %s, want b (first of equal max priority)", next.SlotID)
	}
}

func TestNextUnansweredSkipsAnswered(t *testing.T) {
	s := &Session{Questions: []Question{
		{SlotID: "a", Text: "qa", Priority: 9, Answer: "done"},
		{SlotID: "b", Text: "qb", Priority: 5},
	}}
	if next := NextUnanswered(s); next.SlotID != "b" {
		t.Errorf("next = %s, want b", next.SlotID)
	}
}

func TestNextUnansweredAllAnswered(t *testing.T) {
	s := &Session{Questions: []Question{
		{SlotID: "a", Text: "qa", Priority: 9, Answer: "done"},
	}}
	if next := NextUnanswered(s); next != nil {
		t.Errorf("next = %+v, want nil", next)
	}
}

// --- Answer ---

func TestAnswerRecordsAndAdvances(t *testing.T) {
	mgr, _, _ := testManager(t)
	s, err := mgr.Start(context.Background(), Seed{RawText: "An expense tracker"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	first := NextUnanswered(s)

	next, err := mgr.Answer(first.SlotID, "Freelancers", s)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if next == nil || next.SlotID == first.SlotID {
		t.Fatalf("next = %+v, want a different pending question", next)
	}

	loaded, err := mgr.Load(s.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, q := range loaded.Questions {
		if q.SlotID == first.SlotID && q.Answer != "Freelancers" {
			t.Errorf("answer not persisted: %+v", q)
		}
	}
	// User message plus next bot question appended after the opener.
	if len(loaded.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(loaded.Messages))
	}
	if loaded.Messages[1].Role != RoleUser || loaded.Messages[2].Role != RoleBot {
		t.Errorf("message roles = %s, %s", loaded.Messages[1].Role, loaded.Messages[2].Role)
	}
}

func TestAnswerUnknownSlotIsNoOp(t *testing.T) {
	mgr, _, _ := testManager(t)
	s, _ := mgr.Start(context.Background(), Seed{RawText: "An expense tracker"})

	before := make([]Question, len(s.Questions))
	copy(before, s.Questions)

	if _, err := mgr.Answer("no_such_slot", "whatever", s); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	for i, q := range s.Questions {
		if q.Answer != before[i].Answer {
			t.Errorf("question %s mutated by unknown-slot answer", q.SlotID)
		}
	}
}

func TestAnswerDoesNotOverwrite(t *testing.T) {
	mgr, _, _ := testManager(t)
	s, _ := mgr.Start(context.Background(), Seed{RawText: "An expense tracker"})
	slot := s.Questions[0].SlotID

	if _, err := mgr.Answer(slot, "first", s); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if _, err := mgr.Answer(slot, "second", s); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if s.Questions[0].Answer != "first" {
		t.Errorf("answer = %q, want the first answer preserved", s.Questions[0].Answer)
	}
}

// --- Finish ---

func TestFinishCompletesAndHandsOff(t *testing.T) {
	mgr, projects, workflows := testManager(t)
	s, _ := mgr.Start(context.Background(), Seed{RawText: "An expense tracker"})

	wfID, err := mgr.Finish(context.Background(), s)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if wfID != "wf-1" {
		t.Errorf("workflow ID = %s", wfID)
	}
	if projects.created != 1 {
		t.Errorf("projects created = %d, want 1", projects.created)
	}
	if workflows.started != 1 {
		t.Errorf("workflows started = %d, want 1", workflows.started)
	}

	loaded, _ := mgr.Load(s.ID)
	if loaded.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", loaded.Status)
	}
	if loaded.Summary == nil {
		t.Error("summary not attached")
	}
	if loaded.ProjectID != "proj-1" || loaded.WorkflowID != "wf-1" {
		t.Errorf("handoff IDs = %s/%s", loaded.ProjectID, loaded.WorkflowID)
	}
	if len(workflows.handoffs) == 0 || !strings.HasPrefix(workflows.handoffs[0], "[Summary]\n") {
		t.Errorf("handoff text = %q", workflows.handoffs)
	}
}

func TestFinishAllowsUnansweredQuestions(t *testing.T) {
	mgr, _, _ := testManager(t)
	s, _ := mgr.Start(context.Background(), Seed{RawText: "An expense tracker"})
	// No answers submitted at all.
	if _, err := mgr.Finish(context.Background(), s); err != nil {
		t.Fatalf("Finish with pending questions: %v", err)
	}
	if s.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", s.Status)
	}
}

func TestFinishWorkflowFailureLeavesRunning(t *testing.T) {
	mgr, _, workflows := testManager(t)
	workflows.err = errors.New("workflow backend down")
	s, _ := mgr.Start(context.Background(), Seed{RawText: "An expense tracker"})

	if _, err := mgr.Finish(context.Background(), s); err == nil {
		t.Fatal("expected error from workflow failure")
	}
	loaded, _ := mgr.Load(s.ID)
	if loaded.Status != StatusRunning {
		t.Errorf("status = %s, want running after failed handoff", loaded.Status)
	}
	if loaded.Summary == nil {
		t.Error("summary should still be attached after failed handoff")
	}
}

func TestFinishReusesExistingProject(t *testing.T) {
	mgr, projects, _ := testManager(t)
	s, _ := mgr.Start(context.Background(), Seed{RawText: "An expense tracker"})
	s.ProjectID = "existing-proj"

	if _, err := mgr.Finish(context.Background(), s); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if projects.created != 0 {
		t.Errorf("projects created = %d, want 0 when already linked", projects.created)
	}
}

// --- SubmitSummary ---

func TestSubmitSummaryRestartsWorkflow(t *testing.T) {
	mgr, _, workflows := testManager(t)
	s, _ := mgr.Start(context.Background(), Seed{RawText: "An expense tracker"})

	if _, err := mgr.Finish(context.Background(), s); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	edited := &Summary{Title: "Edited", RefinedIdea: "The edited idea"}
	if _, err := mgr.SubmitSummary(s, edited); err != nil {
		t.Fatalf("SubmitSummary: %v", err)
	}
	if workflows.started != 2 {
		t.Errorf("workflows started = %d, want 2 (restart)", workflows.started)
	}
	loaded, _ := mgr.Load(s.ID)
	if loaded.Summary.Title != "Edited" {
		t.Errorf("summary = %+v, want the edited one", loaded.Summary)
	}
	if !strings.Contains(workflows.handoffs[1], "Title: Edited") {
		t.Errorf("second handoff = %q, want edited summary", workflows.handoffs[1])
	}
}
