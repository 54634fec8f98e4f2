package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatServer(t *testing.T, content string, inspect func(r *http.Request, body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if inspect != nil {
			inspect(r, body)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func testOpenAI(url string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAIConfig{Name: "test", BaseURL: url, APIKey: "sk-test", Model: "test-model"})
}

// --- GenerateQuestions ---

func TestOpenAIGenerateQuestions(t *testing.T) {
	content := "```json\n" + `{"questions":[
		{"question":"Who is the user?","type":"target","priority":9,"slot_name":"target_user"},
		{"question":"What pain?","type":"problem","priority":"8","slot_name":"core_pain"},
		{"question":"","slot_name":"empty_one"}
	]}` + "\n```"
	srv := chatServer(t, content, func(r *http.Request, body map[string]any) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if body["model"] != "test-model" {
			t.Errorf("model = %v", body["model"])
		}
	})
	defer srv.Close()

	qs, err := testOpenAI(srv.URL).GenerateQuestions(context.Background(), "an idea")
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2 (empty text dropped)", len(qs))
	}
	if qs[0].SlotID != "target_user" || qs[0].Priority != 9 || qs[0].Category != "target" {
		t.Errorf("first question = %+v", qs[0])
	}
	// String priority coerced.
	if qs[1].Priority != 8 {
		t.Errorf("second priority = %d, want 8", qs[1].Priority)
	}
}

func TestOpenAINoKeyIsUnavailable(t *testing.T) {
	p := NewOpenAICompatible(OpenAIConfig{Name: "test", BaseURL: "https://example.com", Model: "m"})
	_, err := p.GenerateQuestions(context.Background(), "idea")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestOpenAIMalformedOutput(t *testing.T) {
	srv := chatServer(t, "Sorry, I cannot answer that.", nil)
	defer srv.Close()

	_, err := testOpenAI(srv.URL).GenerateQuestions(context.Background(), "idea")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestOpenAIHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testOpenAI(srv.URL).GenerateQuestions(context.Background(), "idea")
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Errorf("HTTP failure should not map to ErrUnavailable: %v", err)
	}
}

// --- Summarize ---

func TestOpenAISummarize(t *testing.T) {
	content := `{"title":"T","refined_idea":"R","core_pain_points":["p1"],"key_features":["f1","f2"]}`
	srv := chatServer(t, content, nil)
	defer srv.Close()

	sum, err := testOpenAI(srv.URL).Summarize(context.Background(), "enriched")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.Title != "T" || sum.RefinedIdea != "R" {
		t.Errorf("summary = %+v", sum)
	}
	if len(sum.PainPoints) != 1 || len(sum.KeyFeatures) != 2 {
		t.Errorf("lists = %+v / %+v", sum.PainPoints, sum.KeyFeatures)
	}
}

func TestOpenAISummarizePlainTextFallback(t *testing.T) {
	srv := chatServer(t, "Just a prose summary without JSON.", nil)
	defer srv.Close()

	sum, err := testOpenAI(srv.URL).Summarize(context.Background(), "enriched")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.RefinedIdea != "Just a prose summary without JSON." {
		t.Errorf("RefinedIdea = %q", sum.RefinedIdea)
	}
}

// --- normalizeBaseURL ---

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://api.deepseek.com", "https://api.deepseek.com"},
		{"https://api.deepseek.com/", "https://api.deepseek.com"},
		{"https://api.openai.com/v1", "https://api.openai.com"},
		{"api.openai.com/v1/", "https://api.openai.com"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizeBaseURL(c.in); got != c.want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
