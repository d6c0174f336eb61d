package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"loandesk-backend/internal/llm"
)

const (
	// DefaultAPIURL is the OpenAI Chat Completions endpoint used when
	// LLM_API_URL is not set.
	DefaultAPIURL = "https://api.openai.com/v1/chat/completions"
	// DefaultModel is used when LLM_MODEL is not set.
	DefaultModel = "gpt-4o-mini"

	defaultTimeout = 120 * time.Second
	temperature    = 0.1
)

// Config holds the connection settings for an OpenAI-compatible endpoint.
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client implements llm.Extractor against an OpenAI-compatible
// chat/completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient constructs a Client. Missing endpoint/credential is not an error
// here; ExtractFields fails fast with llm.ErrNotConfigured instead, so a
// partially configured server can still serve its read-only routes.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
	Temperature    float32        `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ExtractFields sends the document text to the model and returns the
// normalized loan fields. All failures are terminal for the current
// document; there is no retry.
func (c *Client) ExtractFields(ctx context.Context, text string) (llm.LoanFields, error) {
	if strings.TrimSpace(c.cfg.URL) == "" || strings.TrimSpace(c.cfg.APIKey) == "" {
		return llm.LoanFields{}, llm.ErrNotConfigured
	}

	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(text)},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
		Temperature:    temperature,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.LoanFields{}, &llm.APIError{Message: "encode request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return llm.LoanFields{}, &llm.APIError{Message: "build request: " + err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return llm.LoanFields{}, &llm.APIError{Message: "request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.LoanFields{}, &llm.APIError{Status: resp.StatusCode, Message: "read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return llm.LoanFields{}, &llm.APIError{
			Status:  resp.StatusCode,
			Body:    string(body),
			Message: "non-success status from llm endpoint",
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.LoanFields{}, &llm.APIError{
			Status:  resp.StatusCode,
			Body:    string(body),
			Message: "response parse: " + err.Error(),
		}
	}
	if parsed.Error != nil {
		return llm.LoanFields{}, &llm.APIError{
			Status:  resp.StatusCode,
			Body:    string(body),
			Message: parsed.Error.Message + " (" + parsed.Error.Type + ")",
		}
	}
	if len(parsed.Choices) == 0 {
		return llm.LoanFields{}, &llm.APIError{
			Status:  resp.StatusCode,
			Body:    string(body),
			Message: "response missing choices",
		}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return llm.LoanFields{}, &llm.APIError{
			Status:  resp.StatusCode,
			Body:    string(body),
			Message: "response empty content",
		}
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return llm.LoanFields{}, &llm.APIError{
			Status:  resp.StatusCode,
			Body:    content,
			Message: "content is not a JSON object: " + err.Error(),
		}
	}

	logUsage(c.cfg.Model, parsed.Usage)
	return llm.NormalizeFields(raw), nil
}

func logUsage(model string, usage *struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}) {
	if usage == nil {
		log.Printf("llm response model=%s", model)
		return
	}
	log.Printf("llm response model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}

var _ llm.Extractor = (*Client)(nil)
