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

// anthropicVersion is the API revision pinned by this adapter.
const anthropicVersion = "2023-06-01"

// Anthropic adapts the Messages API, which differs from the
// OpenAI-compatible family in headers (x-api-key, anthropic-version)
// and in its response shape (an array of content parts).
type Anthropic struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// AnthropicConfig holds the settings for the Anthropic adapter.
type AnthropicConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// NewAnthropic creates the Anthropic adapter. An empty API key is
// allowed; the adapter reports ErrUnavailable at call time.
func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	base := strings.TrimSpace(cfg.BaseURL)
	if base != "" {
		if !strings.Contains(base, "://") {
			base = "https://" + base
		}
		base = strings.TrimRight(base, "/")
	}
	return &Anthropic{
		baseURL: base,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    &http.Client{Timeout: 90 * time.Second},
	}
}

// Name identifies the backend in logs.
func (p *Anthropic) Name() string { return "anthropic" }

// GenerateQuestions implements Provider.
func (p *Anthropic) GenerateQuestions(ctx context.Context, idea string) ([]clarify.Question, error) {
	prompt := questionsSystemPrompt + "\n\nIdea: " + idea + "\nReturn JSON only."
	content, err := p.message(ctx, prompt, 800)
	if err != nil {
		return nil, err
	}

	var payload questionsPayload
	if !jsonx.Unmarshal(content, &payload) {
		return nil, fmt.Errorf("anthropic questions: %w", ErrMalformed)
	}
	questions := toQuestions(payload.Questions)
	if len(questions) == 0 {
		return nil, fmt.Errorf("anthropic questions: empty list: %w", ErrMalformed)
	}
	return questions, nil
}

// Summarize implements Provider.
func (p *Anthropic) Summarize(ctx context.Context, enriched string) (*clarify.Summary, error) {
	prompt := summarySystemPrompt + "\n\n" + enriched
	content, err := p.message(ctx, prompt, 1200)
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
	return nil, fmt.Errorf("anthropic summary: %w", ErrMalformed)
}

// --- Messages API transport ---

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// message posts a single user message and concatenates the text parts
// of the response.
func (p *Anthropic) message(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("anthropic: %w", ErrUnavailable)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("anthropic: create request: %w", err)
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("anthropic: status %s", resp.Status)
	}

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", ErrMalformed)
	}

	var sb strings.Builder
	for _, part := range decoded.Content {
		sb.WriteString(part.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("anthropic: response empty: %w", ErrMalformed)
	}
	return sb.String(), nil
}
