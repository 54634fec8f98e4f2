package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// MinQuestions is the smallest usable question list. A provider that
// returns fewer is treated as exhausted for generation purposes and the
// chain keeps going.
const MinQuestions = 4

// Per-call timeouts, matching what the backends realistically need.
// Summarization carries more input and gets more time.
const (
	questionTimeout = 30 * time.Second
	summaryTimeout  = 60 * time.Second
)

// Chain tries providers in a fixed priority order, synchronously, each
// exactly once, and accepts the first structurally valid result. It
// never invents content: when every provider fails the chain reports
// ErrExhausted and the caller falls back to the heuristic generator.
type Chain struct {
	providers []Provider
	logf      func(format string, args ...any)
}

// ErrExhausted means no provider in the chain produced a usable result.
var ErrExhausted = errors.New("all providers exhausted")

// NewChain builds a chain over the given providers in priority order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers, logf: log.Printf}
}

// SetLogf overrides the warning sink. Used by tests; the default is
// log.Printf to stderr (stdout belongs to the MCP transport).
func (c *Chain) SetLogf(logf func(format string, args ...any)) {
	c.logf = logf
}

// GenerateQuestions returns the first provider result with at least
// MinQuestions entries. Unavailable providers are skipped silently;
// malformed output and transport failures are logged and skipped.
func (c *Chain) GenerateQuestions(ctx context.Context, idea string) ([]clarify.Question, error) {
	for _, p := range c.providers {
		callCtx, cancel := context.WithTimeout(ctx, questionTimeout)
		questions, err := p.GenerateQuestions(callCtx, idea)
		cancel()

		if err != nil {
			c.warn(p, "question generation", err)
			continue
		}
		if len(questions) < MinQuestions {
			c.logf("WARNING: provider %s returned %d questions (need %d), trying next", p.Name(), len(questions), MinQuestions)
			continue
		}
		return questions, nil
	}
	return nil, fmt.Errorf("question generation: %w", ErrExhausted)
}

// Summarize returns the first non-nil provider summary.
func (c *Chain) Summarize(ctx context.Context, enriched string) (*clarify.Summary, error) {
	for _, p := range c.providers {
		callCtx, cancel := context.WithTimeout(ctx, summaryTimeout)
		summary, err := p.Summarize(callCtx, enriched)
		cancel()

		if err != nil {
			c.warn(p, "summarization", err)
			continue
		}
		if summary != nil {
			return summary, nil
		}
	}
	return nil, fmt.Errorf("summarization: %w", ErrExhausted)
}

// warn logs provider failures, except the expected not-configured case.
func (c *Chain) warn(p Provider, op string, err error) {
	if errors.Is(err, ErrUnavailable) {
		return
	}
	c.logf("WARNING: provider %s %s failed: %v", p.Name(), op, err)
}
