// Package provider implements text-generation backends for the
// clarification engine.
//
// Each backend is an adapter that normalizes one external API into the
// Provider interface; the Chain tries adapters in a fixed priority
// order. Providers that are not configured report ErrUnavailable so the
// chain can skip them silently — a transport or parse failure is a
// different condition and gets logged before the chain moves on.
package provider

import (
	"context"
	"errors"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// ErrUnavailable means the provider has no credentials or configuration.
// This is an expected state, not a failure: the chain skips without
// logging.
var ErrUnavailable = errors.New("provider not configured")

// ErrMalformed means the provider responded but the content could not
// be parsed into the expected shape. Logged as a warning, non-fatal.
var ErrMalformed = errors.New("malformed provider output")

// Provider is one text-generation backend. Implementations must return
// ErrUnavailable when unconfigured and wrap ErrMalformed on parse
// failures; any other error is treated as a transport failure.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// GenerateQuestions asks the backend for clarification questions
	// about the raw idea. Returned questions are unnormalized: slot IDs
	// may be missing and priorities out of range.
	GenerateQuestions(ctx context.Context, idea string) ([]clarify.Question, error)

	// Summarize asks the backend to condense an enriched idea (seed
	// text plus collected Q&A) into a structured summary.
	Summarize(ctx context.Context, enriched string) (*clarify.Summary, error)
}

// --- Shared wire shapes ---

// questionsPayload is the JSON contract both adapter families request
// from the model for question generation.
type questionsPayload struct {
	Questions []wireQuestion `json:"questions"`
}

// wireQuestion tolerates sloppy model output: priority may arrive as a
// number, a numeric string, or garbage. Coercion failures become zero,
// which the normalizer later defaults to 7.
type wireQuestion struct {
	SlotName string `json:"slot_name"`
	Question string `json:"question"`
	Type     string `json:"type"`
	Priority any    `json:"priority"`
}

// summaryPayload is the JSON contract for summarization. Field names
// follow the prompt ("core_pain_points", not "pain_points").
type summaryPayload struct {
	Title          string   `json:"title"`
	RefinedIdea    string   `json:"refined_idea"`
	UserSegments   []string `json:"user_segments"`
	CorePainPoints []string `json:"core_pain_points"`
	KeyFeatures    []string `json:"key_features"`
	Constraints    []string `json:"constraints"`
	SuccessMetrics []string `json:"success_metrics"`
	Risks          []string `json:"risks"`
	NextSteps      []string `json:"next_steps"`
}

func (p summaryPayload) toSummary() *clarify.Summary {
	return &clarify.Summary{
		Title:          p.Title,
		RefinedIdea:    p.RefinedIdea,
		UserSegments:   p.UserSegments,
		PainPoints:     p.CorePainPoints,
		KeyFeatures:    p.KeyFeatures,
		Constraints:    p.Constraints,
		SuccessMetrics: p.SuccessMetrics,
		Risks:          p.Risks,
		NextSteps:      p.NextSteps,
	}
}

// coercePriority converts whatever the model put in the priority field
// into an int. Returns 0 (unset) when the value is missing or garbage.
func coercePriority(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		total := 0
		for _, r := range n {
			if r < '0' || r > '9' {
				return 0
			}
			total = total*10 + int(r-'0')
		}
		if n == "" {
			return 0
		}
		return total
	default:
		return 0
	}
}

// toQuestions converts wire questions into engine questions, dropping
// entries with no text. Slot IDs and priorities pass through as-is for
// the normalizer to repair.
func toQuestions(wire []wireQuestion) []clarify.Question {
	out := make([]clarify.Question, 0, len(wire))
	for _, w := range wire {
		if w.Question == "" {
			continue
		}
		category := w.Type
		if category == "" {
			category = "general"
		}
		out = append(out, clarify.Question{
			SlotID:   w.SlotName,
			Text:     w.Question,
			Priority: coercePriority(w.Priority),
			Category: category,
		})
	}
	return out
}

// --- Prompts ---

const questionsSystemPrompt = "You generate a concise list of 6-10 clarification questions for the idea. " +
	"Return strict JSON with fields: questions:[{question, type, priority(1-10), slot_name}]"

const summarySystemPrompt = "You are a product strategist. Summarize and refine the idea based on the given " +
	"enriched idea (original idea + Q&A). Return strict JSON with keys: title, refined_idea, user_segments[], " +
	"core_pain_points[], key_features[], constraints[], success_metrics[], risks[], next_steps[]"
