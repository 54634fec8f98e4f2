package clarify

import "strings"

// baseHeuristicQuestions covers the slots every idea needs pinned down
// before handoff. Keyword triggers below insert domain-specific
// questions on top of these.
func baseHeuristicQuestions() []Question {
	return []Question{
		{SlotID: "target_user", Text: "Who is the target user for this idea?", Priority: 9, Category: "target"},
		{SlotID: "core_pain", Text: "What is the core pain point it solves?", Priority: 9, Category: "problem"},
		{SlotID: "key_features", Text: "What are the expected core feature areas?", Priority: 8, Category: "features"},
		{SlotID: "data_sources", Text: "What data sources or prerequisites are available?", Priority: 7, Category: "data"},
		{SlotID: "success_metrics", Text: "What are the success criteria or key metrics?", Priority: 7, Category: "metrics"},
		{SlotID: "constraints", Text: "Are there budget, timeline, or compliance constraints?", Priority: 6, Category: "constraints"},
	}
}

var educationKeywords = []string{"education", "learning", "student", "teach"}

// HeuristicQuestions builds the terminal-fallback question set from the
// raw idea text alone. Always returns a non-empty, slot-unique list.
func HeuristicQuestions(idea string) []Question {
	qs := baseHeuristicQuestions()
	lowered := strings.ToLower(idea)

	if containsAny(lowered, educationKeywords) {
		front := Question{
			SlotID:   "education_stage",
			Text:     "Which school stage or age range is this aimed at?",
			Priority: 10,
			Category: "education",
		}
		qs = append([]Question{front}, qs...)
		qs = append(qs, Question{
			SlotID:   "personalization_basis",
			Text:     "Which learning-style theories drive the personalization strategy?",
			Priority: 7,
			Category: "method",
		})
	}
	if strings.Contains(lowered, "platform") {
		qs = append(qs, Question{
			SlotID:   "business_model",
			Text:     "What is the platform's business model and pricing?",
			Priority: 7,
			Category: "business",
		})
	}

	return DedupeQuestions(qs)
}

// HeuristicSummary assembles a summary directly from the session's
// seed and answered questions when no provider could produce one.
func HeuristicSummary(s *Session) *Summary {
	var qa []string
	for _, q := range s.Questions {
		if q.Answered() {
			qa = append(qa, q.Text+" -> "+q.Answer)
		}
	}

	title := s.Seed.Domain
	if title == "" {
		title = "Concept"
	}
	return &Summary{
		Title:          title + " summary",
		RefinedIdea:    s.Seed.RawText,
		UserSegments:   []string{},
		PainPoints:     []string{},
		KeyFeatures:    []string{},
		Constraints:    []string{},
		SuccessMetrics: []string{},
		Risks:          []string{},
		NextSteps:      []string{"Hand off to collaborative planning to refine the solution and milestones"},
		QAPairs:        qa,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
