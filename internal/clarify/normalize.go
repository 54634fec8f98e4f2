package clarify

import (
	"fmt"
	"strings"
)

// maxQuestions caps the working set per session.
const maxQuestions = 10

// defaultPriority is assigned to questions with a missing or malformed
// priority.
const defaultPriority = 7

// strippedPunctuation is the set of ASCII and CJK punctuation, bullet,
// and quote characters removed when normalizing question text for
// comparison. CJK letters themselves are kept.
var strippedPunctuation = map[rune]bool{
	',': true, '.': true, '!': true, '?': true, ':': true, ';': true,
	'-': true, '(': true, ')': true, '[': true, ']': true, '{': true,
	'}': true, '<': true, '>': true, '"': true, '\'': true,
	'—': true, '…': true, '·': true, '•': true,
	'，': true, '。': true, '！': true, '？': true, '、': true,
	'；': true, '：': true, '“': true, '”': true, '‘': true, '’': true,
	'《': true, '》': true, '【': true, '】': true,
}

// NormalizeText canonicalizes question text for deduplication:
// lowercase, punctuation stripped, whitespace runs collapsed to a
// single space, trimmed. The function is idempotent — normalizing an
// already-normalized string returns it unchanged.
func NormalizeText(text string) string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if strippedPunctuation[r] {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// DedupeQuestions reduces a raw candidate list to the clean working
// set. Steps, in order: fill missing slot IDs as slot_<index>; clamp
// priorities into [1,10] defaulting unset values to 7; drop questions
// whose normalized text is empty or duplicates an already-kept one
// (first occurrence wins); resolve slot ID collisions with numeric
// suffixes; cap at 10 questions keeping original relative order. The
// result is NOT re-sorted by priority — ordering by priority is the
// job of NextUnanswered.
func DedupeQuestions(raw []Question) []Question {
	seenTexts := make(map[string]bool)
	seenSlots := make(map[string]bool)
	kept := make([]Question, 0, len(raw))

	for i, q := range raw {
		if q.SlotID == "" {
			q.SlotID = fmt.Sprintf("slot_%d", i)
		}
		q.Priority = clampPriority(q.Priority)

		norm := NormalizeText(q.Text)
		if norm == "" || seenTexts[norm] {
			continue
		}

		slot := q.SlotID
		for suffix := 1; seenSlots[slot]; suffix++ {
			slot = fmt.Sprintf("%s_%d", q.SlotID, suffix)
		}
		q.SlotID = slot

		seenTexts[norm] = true
		seenSlots[slot] = true
		kept = append(kept, q)
		if len(kept) == maxQuestions {
			break
		}
	}

	return kept
}

// clampPriority forces a priority into [1,10]; zero means the provider
// never set one and gets the default.
func clampPriority(p int) int {
	switch {
	case p == 0:
		return defaultPriority
	case p < 1:
		return 1
	case p > 10:
		return 10
	default:
		return p
	}
}
