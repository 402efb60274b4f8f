package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Upstream is the chat-completions client. A circuit breaker sits in
// front of it so a flapping language model API degrades the assistant
// instead of tying up request handlers for 30s each.
type Upstream struct {
	base    string
	apiKey  string
	model   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewUpstream(base, apiKey string) *Upstream {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &Upstream{
		base:   base,
		apiKey: apiKey,
		model:  "gpt-3.5-turbo",
		client: &http.Client{Timeout: 30 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "chat-completions",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type CompletionMessage struct {
	Role         string        `json:"role"`
	Content      string        `json:"content"`
	FunctionCall *FunctionCall `json:"function_call"`
}

type chatCompletionRequest struct {
	Model        string        `json:"model"`
	Messages     []ChatMessage `json:"messages"`
	MaxTokens    int           `json:"max_tokens"`
	Temperature  float64       `json:"temperature"`
	Functions    []any         `json:"functions,omitempty"`
	FunctionCall string        `json:"function_call,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message CompletionMessage `json:"message"`
	} `json:"choices"`
}

// controlDevicesFunction is the single function exposed to the model.
// The model answers either conversationally or with a call carrying a
// response string plus device actions.
func controlDevicesFunction() any {
	return map[string]any{
		"name":        "control_devices",
		"description": "Control smart home devices based on user commands",
		"parameters": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"actions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"device_id":   map[string]any{"type": "string"},
							"device_type": map[string]any{"type": "string"},
							"property":    map[string]any{"type": "string"},
							"value":       map[string]any{"type": []string{"string", "number", "boolean"}},
							"room":        map[string]any{"type": "string"},
						},
						"required": []string{"device_type", "property", "value"},
					},
				},
				"response": map[string]any{"type": "string"},
			},
			"required": []string{"response"},
		},
	}
}

// Complete sends one completion request through the breaker and returns
// the first choice.
func (u *Upstream) Complete(ctx context.Context, messages []ChatMessage) (*CompletionMessage, error) {
	result, err := u.breaker.Execute(func() (any, error) {
		body, err := json.Marshal(chatCompletionRequest{
			Model:        u.model,
			Messages:     messages,
			MaxTokens:    500,
			Temperature:  0.7,
			Functions:    []any{controlDevicesFunction()},
			FunctionCall: "auto",
		})
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			u.base+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+u.apiKey)

		resp, err := u.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("chat completion request error: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return nil, fmt.Errorf("chat completion status %d: %s", resp.StatusCode, text)
		}

		var decoded chatCompletionResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("chat completion decode error: %w", err)
		}
		if len(decoded.Choices) == 0 {
			return nil, fmt.Errorf("chat completion returned no choices")
		}
		return &decoded.Choices[0].Message, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*CompletionMessage), nil
}
