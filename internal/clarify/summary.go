package clarify

import (
	"context"
	"errors"
	"log"
	"strings"
)

// QuestionSource produces clarification questions for a raw idea.
// Implemented by provider.Chain.
type QuestionSource interface {
	GenerateQuestions(ctx context.Context, idea string) ([]Question, error)
}

// SummarySource produces a structured summary from the enriched idea.
// Implemented by provider.Chain.
type SummarySource interface {
	Summarize(ctx context.Context, enriched string) (*Summary, error)
}

// GenerateQuestions asks the source for questions and falls back to
// the heuristic templates when it fails or comes back empty. The
// returned set is always deduplicated.
func GenerateQuestions(ctx context.Context, src QuestionSource, idea string) []Question {
	if src != nil {
		qs, err := src.GenerateQuestions(ctx, idea)
		if err == nil && len(qs) > 0 {
			return DedupeQuestions(qs)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("question generation fell back to heuristic: %v", err)
		}
	}
	return HeuristicQuestions(idea)
}

// GenerateSummary builds the enriched idea from the session, runs it
// through the source, and falls back to the heuristic summary.
func GenerateSummary(ctx context.Context, src SummarySource, s *Session) *Summary {
	if src != nil {
		enriched := BuildEnrichedIdea(s)
		sum, err := src.Summarize(ctx, enriched)
		if err == nil && sum != nil {
			return sum
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("summary generation fell back to heuristic: %v", err)
		}
	}
	return HeuristicSummary(s)
}

// BuildEnrichedIdea concatenates the seed idea with the answered Q&A
// pairs into the text handed to the summary providers.
func BuildEnrichedIdea(s *Session) string {
	var qa []string
	for _, q := range s.Questions {
		if q.Answered() {
			qa = append(qa, "- "+q.Text+"\n  A: "+q.Answer)
		}
	}
	return s.Seed.RawText + "\n\nClarifications:\n" + strings.Join(qa, "\n")
}

// FormatSummary renders a summary as labeled lines for the handoff
// block. Empty fields are omitted; list fields join with "; ". Field
// order is fixed so the output is deterministic.
func FormatSummary(sum *Summary) string {
	if sum == nil {
		return ""
	}
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	add("Title", sum.Title)
	add("Refined idea", sum.RefinedIdea)
	add("Target users", strings.Join(sum.UserSegments, "; "))
	add("Core pain points", strings.Join(sum.PainPoints, "; "))
	add("Key features", strings.Join(sum.KeyFeatures, "; "))
	add("Constraints", strings.Join(sum.Constraints, "; "))
	add("Success metrics", strings.Join(sum.SuccessMetrics, "; "))
	add("Risks", strings.Join(sum.Risks, "; "))
	add("Next steps", strings.Join(sum.NextSteps, "; "))
	return strings.Join(lines, "\n")
}

// HandoffText is the full payload passed downstream when a session
// finishes: the formatted summary on top, then the enriched idea.
func HandoffText(s *Session) string {
	return "[Summary]\n" + FormatSummary(s.Summary) + "\n\n" + BuildEnrichedIdea(s)
}
