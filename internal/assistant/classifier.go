package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/farmerx/finance-assistant/internal/store"
)

// Classifier turns a natural-language message into a single structured
// tool call. It never touches storage.
type Classifier interface {
	Classify(ctx context.Context, scope store.Scope, message string, recent []store.Transaction) (*ToolCall, error)
}

// GeminiClassifier calls the Gemini API with low-entropy decoding
// settings to bias toward a single consistent structured answer.
type GeminiClassifier struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClassifier creates the classifier with a long-lived client.
// The client is constructed once at process start and shared by all
// requests.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("classifier: create genai client: %w", err)
	}

	return &GeminiClassifier{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Classify builds the prompt, invokes the model and extracts a tool call
// from the free-text reply. Model-level failures return an error; replies
// that cannot be decoded come back as a ToolCall with Err set.
func (c *GeminiClassifier) Classify(ctx context.Context, scope store.Scope, message string, recent []store.Transaction) (*ToolCall, error) {
	prompt := buildPrompt(scope, message, recent)

	// The model call is the only operation whose latency this system does
	// not control; bound it.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
		TopP:        genai.Ptr[float32](0.8),
		TopK:        genai.Ptr[float32](40),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("classifier: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("classifier: empty response from model")
	}

	return parseToolCall(rawText), nil
}

// parseToolCall extracts a single JSON object from the model's reply by
// keeping everything between the first '{' and the last '}'. The model
// often wraps JSON in prose or code fences, so this is deliberately
// tolerant; every failure mode surfaces as Err, never as a Go error.
func parseToolCall(raw string) *ToolCall {
	text := strings.TrimSpace(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return &ToolCall{Err: "Invalid response format"}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return &ToolCall{Err: "Invalid JSON response"}
	}

	if errVal, ok := parsed["error"]; ok {
		msg, _ := errVal.(string)
		if msg == "" {
			msg = "Unable to understand the request"
		}
		return &ToolCall{Err: msg}
	}

	name, _ := parsed["name"].(string)
	if name == "" {
		return &ToolCall{Err: "No function name specified"}
	}

	params, _ := parsed["parameters"].(map[string]any)
	if params == nil {
		params = map[string]any{}
	}

	return &ToolCall{Name: name, Parameters: params}
}
