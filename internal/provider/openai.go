package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/clarion-dev/clarion/internal/clarify"
	"github.com/clarion-dev/clarion/internal/jsonx"
)

// OpenAICompatible talks to any chat-completions endpoint that follows
// the OpenAI wire format. One adapter covers OpenAI itself, DeepSeek,
// and Qwen's DashScope compatible mode — only name, base URL, key, and
// model differ.
type OpenAICompatible struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// OpenAIConfig holds the per-backend settings for an OpenAI-compatible
// adapter.
type OpenAIConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
}

// NewOpenAICompatible creates an adapter for one OpenAI-compatible
// backend. An empty API key is allowed: the adapter reports
// ErrUnavailable at call time so the chain can skip it.
func NewOpenAICompatible(cfg OpenAIConfig) *OpenAICompatible {
	return &OpenAICompatible{
		name:    cfg.Name,
		baseURL: normalizeBaseURL(cfg.BaseURL),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

// Name identifies the backend in logs.
func (p *OpenAICompatible) Name() string { return p.name }

// GenerateQuestions implements Provider.
func (p *OpenAICompatible) GenerateQuestions(ctx context.Context, idea string) ([]clarify.Question, error) {
	content, err := p.chat(ctx, questionsSystemPrompt, "Idea: "+idea+"\nReturn JSON only.")
	if err != nil {
		return nil, err
	}

	var payload questionsPayload
	if !jsonx.Unmarshal(content, &payload) {
		return nil, fmt.Errorf("%s questions: %w", p.name, ErrMalformed)
	}
	questions := toQuestions(payload.Questions)
	if len(questions) == 0 {
		return nil, fmt.Errorf("%s questions: empty list: %w", p.name, ErrMalformed)
	}
	return questions, nil
}

// Summarize implements Provider. When the model ignores the JSON
// contract but still produced text, that text is kept as the refined
// idea rather than discarded.
func (p *OpenAICompatible) Summarize(ctx context.Context, enriched string) (*clarify.Summary, error) {
	content, err := p.chat(ctx, summarySystemPrompt, enriched)
	if err != nil {
		return nil, err
	}

	var payload summaryPayload
	if jsonx.Unmarshal(content, &payload) {
		return payload.toSummary(), nil
	}
	if trimmed := strings.TrimSpace(content); trimmed != "" {
		return &clarify.Summary{RefinedIdea: trimmed}, nil
	}
	return nil, fmt.Errorf("%s summary: %w", p.name, ErrMalformed)
}

// --- Chat completions transport ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// chat posts one system+user exchange and returns the assistant text.
func (p *OpenAICompatible) chat(ctx context.Context, system, user string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("%s: %w", p.name, ErrUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	endpoint := p.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", p.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", p.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%s: status %s", p.name, resp.Status)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", p.name, ErrMalformed)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s: response empty: %w", p.name, ErrMalformed)
	}
	return decoded.Choices[0].Message.Content, nil
}

// normalizeBaseURL ensures a scheme, trims trailing slashes, and strips
// a trailing /v1 so endpoints can be appended uniformly.
func normalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return trimmed
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	trimmed = strings.TrimRight(trimmed, "/")
	trimmed = strings.TrimSuffix(trimmed, "/v1")
	return trimmed
}
