package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// --- Fake provider ---

type fakeProvider struct {
	name       string
	questions  []clarify.Question
	summary    *clarify.Summary
	err        error
	questCalls int
	sumCalls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GenerateQuestions(ctx context.Context, idea string) ([]clarify.Question, error) {
	f.questCalls++
	return f.questions, f.err
}

func (f *fakeProvider) Summarize(ctx context.Context, enriched string) (*clarify.Summary, error) {
	f.sumCalls++
	return f.summary, f.err
}

func nQuestions(n int) []clarify.Question {
	qs := make([]clarify.Question, n)
	for i := range qs {
		qs[i] = clarify.Question{SlotID: fmt.Sprintf("s%d", i), Text: fmt.Sprintf("Question %d?", i), Priority: 5}
	}
	return qs
}

func silentChain(providers ...Provider) *Chain {
	c := NewChain(providers...)
	c.SetLogf(func(string, ...any) {})
	return c
}

// --- GenerateQuestions ---

func TestChainStopsAtFirstGoodResult(t *testing.T) {
	first := &fakeProvider{name: "first", questions: nQuestions(5)}
	second := &fakeProvider{name: "second", questions: nQuestions(8)}
	c := silentChain(first, second)

	qs, err := c.GenerateQuestions(context.Background(), "idea")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 5 {
		t.Errorf("got %d questions, want the first provider's 5", len(qs))
	}
	if second.questCalls != 0 {
		t.Errorf("second provider invoked %d times, want 0", second.questCalls)
	}
}

func TestChainSkipsUnavailable(t *testing.T) {
	down := &fakeProvider{name: "down", err: ErrUnavailable}
	up := &fakeProvider{name: "up", questions: nQuestions(4)}
	c := silentChain(down, up)

	qs, err := c.GenerateQuestions(context.Background(), "idea")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 4 {
		t.Errorf("got %d questions, want 4", len(qs))
	}
	if down.questCalls != 1 || up.questCalls != 1 {
		t.Errorf("calls = %d/%d, want each provider invoked exactly once", down.questCalls, up.questCalls)
	}
}

func TestChainRejectsTooFewQuestions(t *testing.T) {
	thin := &fakeProvider{name: "thin", questions: nQuestions(MinQuestions - 1)}
	full := &fakeProvider{name: "full", questions: nQuestions(MinQuestions)}
	c := silentChain(thin, full)

	qs, err := c.GenerateQuestions(context.Background(), "idea")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != MinQuestions {
		t.Errorf("got %d questions, want the second provider's %d", len(qs), MinQuestions)
	}
}

func TestChainExhausted(t *testing.T) {
	a := &fakeProvider{name: "a", err: ErrUnavailable}
	b := &fakeProvider{name: "b", err: errors.New("boom")}
	c := silentChain(a, b)

	_, err := c.GenerateQuestions(context.Background(), "idea")
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("err = %v, want ErrExhausted", err)
	}
}

func TestChainEmpty(t *testing.T) {
	c := silentChain()
	if _, err := c.GenerateQuestions(context.Background(), "idea"); !errors.Is(err, ErrExhausted) {
		t.Errorf("err = %v, want ErrExhausted", err)
	}
}

func TestChainWarnsOnFailureNotUnavailable(t *testing.T) {
	var logged []string
	c := NewChain(
		&fakeProvider{name: "silent", err: ErrUnavailable},
		&fakeProvider{name: "noisy", err: errors.New("timeout")},
		&fakeProvider{name: "good", questions: nQuestions(6)},
	)
	c.SetLogf(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})

	if _, err := c.GenerateQuestions(context.Background(), "idea"); err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(logged) != 1 {
		t.Fatalf("got %d log lines, want 1: %v", len(logged), logged)
	}
	if !strings.Contains(logged[0], "noisy") {
		t.Errorf("log line = %q, want it to name the failing provider", logged[0])
	}
}

// --- Summarize ---

func TestChainSummarizeFirstNonNil(t *testing.T) {
	want := &clarify.Summary{Title: "T"}
	a := &fakeProvider{name: "a", err: ErrUnavailable}
	b := &fakeProvider{name: "b", summary: want}
	c := silentChain(a, b)

	got, err := c.Summarize(context.Background(), "enriched")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want provider b's summary", got)
	}
}

func TestChainSummarizeExhausted(t *testing.T) {
	c := silentChain(&fakeProvider{name: "a", err: ErrUnavailable})
	if _, err := c.Summarize(context.Background(), "enriched"); !errors.Is(err, ErrExhausted) {
		t.Errorf("err = %v, want ErrExhausted", err)
	}
}
