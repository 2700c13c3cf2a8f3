// Package classifier provides the remote language-model classification
// adapter and its resilience wrappers. Remote classification is strictly
// best-effort: every failure path lands on the local keyword classifier.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

const (
	defaultModel   = openai.GPT4oMini
	defaultTimeout = 8 * time.Second
)

const systemPrompt = `You classify calendar events. Given an event title and description,
respond with a single JSON object:
{"type": "business"|"hobby"|"personal", "confidence": 0.0-1.0,
 "reasoning": "...", "keywords": ["..."], "context": "..."}
Respond with JSON only, no surrounding text.`

// remotePayload is the structured payload the model is instructed to return.
type remotePayload struct {
	Type       string   `json:"type"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Keywords   []string `json:"keywords"`
	Context    string   `json:"context"`
}

// chatCompleter is the slice of the OpenAI client the adapter needs;
// tests substitute a fake.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClassifier delegates classification to the OpenAI chat API.
type OpenAIClassifier struct {
	client  chatCompleter
	model   string
	timeout time.Duration
}

// Option configures the OpenAI classifier.
type Option func(*OpenAIClassifier)

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(c *OpenAIClassifier) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *OpenAIClassifier) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithClient substitutes the underlying chat client.
func WithClient(client chatCompleter) Option {
	return func(c *OpenAIClassifier) {
		c.client = client
	}
}

// NewOpenAIClassifier creates a remote classifier against the OpenAI API.
func NewOpenAIClassifier(apiKey string, opts ...Option) *OpenAIClassifier {
	c := &OpenAIClassifier{
		client:  openai.NewClient(apiKey),
		model:   defaultModel,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify asks the model for a structured classification. The call is
// bounded by the configured timeout; malformed JSON is repaired before
// giving up.
func (c *OpenAIClassifier) Classify(ctx context.Context, title, description string) (domain.EventClassification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Title: %s\nDescription: %s", title, description)
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return domain.EventClassification{}, fmt.Errorf("remote classification call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.EventClassification{}, fmt.Errorf("remote classification returned no choices")
	}

	return parsePayload(resp.Choices[0].Message.Content)
}

// parsePayload normalizes the model output into an EventClassification.
func parsePayload(content string) (domain.EventClassification, error) {
	raw := strings.TrimSpace(content)

	var payload remotePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return domain.EventClassification{}, fmt.Errorf("malformed classification payload: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return domain.EventClassification{}, fmt.Errorf("malformed classification payload after repair: %w", err)
		}
	}

	eventType, err := domain.ParseEventType(strings.ToLower(strings.TrimSpace(payload.Type)))
	if err != nil {
		return domain.EventClassification{}, fmt.Errorf("remote classification: %w", err)
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		return domain.EventClassification{}, fmt.Errorf("remote classification confidence %v out of range", payload.Confidence)
	}

	return domain.EventClassification{
		Type:       eventType,
		Confidence: payload.Confidence,
		Reasoning:  payload.Reasoning,
		Keywords:   payload.Keywords,
		Context:    payload.Context,
	}, nil
}
