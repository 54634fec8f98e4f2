package jsonx

import (
	"encoding/json"
	"testing"
)

// --- Extract: fenced blocks ---

func TestExtract_FencedJSONBlock(t *testing.T) {
	text := "Here you go:\n```json\n{\"a\": 1}\n```\nThanks!"
	raw, ok := Extract(text)
	if !ok {
		t.Fatal("Extract should find the fenced object")
	}
	if string(raw) != `{"a": 1}` {
		t.Errorf("Extract = %s, want {\"a\": 1}", raw)
	}
}

func TestExtract_FenceWithoutLanguageTag(t *testing.T) {
	text := "```\n{\"b\": 2}\n```"
	raw, ok := Extract(text)
	if !ok {
		t.Fatal("Extract should find the fenced object")
	}
	if string(raw) != `{"b": 2}` {
		t.Errorf("Extract = %s, want {\"b\": 2}", raw)
	}
}

func TestExtract_BrokenFenceFallsBackToBraces(t *testing.T) {
	// Fence contains invalid JSON, but prose later carries a valid object.
	text := "```json\n{oops\n``` anyway the real answer is {\"c\": 3} ok"
	raw, ok := Extract(text)
	if !ok {
		t.Fatal("Extract should fall back to the brace scan")
	}
	var v map[string]int
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("extracted payload is not valid JSON: %v", err)
	}
	if v["c"] != 3 {
		t.Errorf("c = %d, want 3", v["c"])
	}
}

// --- Extract: prose-wrapped objects ---

func TestExtract_ObjectSurroundedByProse(t *testing.T) {
	text := `Sure! The questions are {"questions": [{"q": "who?"}]} — hope that helps.`
	raw, ok := Extract(text)
	if !ok {
		t.Fatal("Extract should find the embedded object")
	}
	var v struct {
		Questions []struct {
			Q string `json:"q"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(v.Questions) != 1 || v.Questions[0].Q != "who?" {
		t.Errorf("unexpected payload: %+v", v)
	}
}

func TestExtract_NestedBracesStayBalanced(t *testing.T) {
	text := `prefix {"outer": {"inner": {"deep": true}}} suffix {"second": 1}`
	raw, ok := Extract(text)
	if !ok {
		t.Fatal("Extract should find the first balanced object")
	}
	if string(raw) != `{"outer": {"inner": {"deep": true}}}` {
		t.Errorf("Extract = %s", raw)
	}
}

func TestExtract_BracesInsideStringsIgnored(t *testing.T) {
	text := `{"text": "use {curly} braces", "n": 1}`
	raw, ok := Extract(text)
	if !ok {
		t.Fatal("Extract should handle braces inside string literals")
	}
	if string(raw) != text {
		t.Errorf("Extract = %s, want the whole object", raw)
	}
}

// --- Extract: failure signaling ---

func TestExtract_NoObjectReturnsFalse(t *testing.T) {
	for _, text := range []string{"", "just prose", "[1, 2, 3]", "unbalanced {"} {
		if _, ok := Extract(text); ok {
			t.Errorf("Extract(%q) should report no object", text)
		}
	}
}

func TestExtract_InvalidJSONReturnsFalse(t *testing.T) {
	if _, ok := Extract("{not: valid}"); ok {
		t.Error("Extract should reject syntactically invalid objects")
	}
}

// --- Unmarshal ---

func TestUnmarshal_DecodesIntoTarget(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	if !Unmarshal("answer: ```json\n{\"title\": \"x\"}\n```", &v) {
		t.Fatal("Unmarshal should succeed")
	}
	if v.Title != "x" {
		t.Errorf("Title = %s, want x", v.Title)
	}
}

func TestUnmarshal_TypeMismatchReturnsFalse(t *testing.T) {
	var v struct {
		N int `json:"n"`
	}
	if Unmarshal(`{"n": "not a number"}`, &v) {
		t.Error("Unmarshal should fail on schema mismatch")
	}
}
