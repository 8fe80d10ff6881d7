package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bdobrica/Tomo/common/retry"
)

// Base URLs of the two supported OpenAI-compatible endpoints.  Both serve
// the same /chat/completions request and response shape, so a single client
// implementation covers them.
const (
	OpenAIBaseURL   = "https://api.openai.com/v1"
	DeepSeekBaseURL = "https://api.deepseek.com"
)

const (
	defaultModel        = "gpt-4o-mini"
	defaultTimeout      = 12 * time.Second
	defaultMaxAttempts  = 3
	defaultInitialDelay = 1 * time.Second
)

// Config configures the chat-completions client.
type Config struct {
	// APIKey is the bearer token used to authenticate against the API.
	APIKey string

	// BaseURL selects the endpoint (OpenAIBaseURL, DeepSeekBaseURL, or any
	// other OpenAI-compatible server).  Defaults to OpenAIBaseURL.
	BaseURL string

	// Model is the chat model to use.  Defaults to gpt-4o-mini.
	Model string

	// Timeout is the per-attempt HTTP timeout.  Defaults to 12 s.
	Timeout time.Duration

	// MaxAttempts caps the total number of attempts per call, including the
	// first.  Only transient failures consume extra attempts.  Defaults to 3.
	MaxAttempts int

	// InitialDelay is the backoff before the second attempt; it doubles on
	// each subsequent one.  Defaults to 1 s.
	InitialDelay time.Duration
}

// Client implements Provider against an OpenAI-compatible chat API.
// It holds only read-only configuration and a shared http.Client, so a
// single instance serves all conversations concurrently.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient returns a Client for cfg with defaults applied.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = defaultInitialDelay
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// --- minimal chat-completions wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Generate renders the prompt pair for req and calls the endpoint,
// retrying transient failures with exponential backoff.  The first choice's
// message content is returned trimmed; every failure path ends in an error.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	system, user := BuildPrompt(req)

	var text string
	err := retry.Do(ctx, retry.Config{
		MaxAttempts:  c.cfg.MaxAttempts,
		InitialDelay: c.cfg.InitialDelay,
		ShouldRetry:  IsTransient,
	}, func() error {
		out, err := c.call(ctx, system, user)
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// call performs a single chat-completions attempt.
func (c *Client) call(ctx context.Context, system, user string) (string, error) {
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   200,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions",
		bytes.NewReader(data),
	)
	if err != nil {
		return "", fmt.Errorf("llm: create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// Network errors and client-side timeouts are permanent for this
		// call; only HTTP 429/5xx consume extra attempts.
		return "", fmt.Errorf("llm: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var parsed chatResponse
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Error != nil {
			apiErr.Message = parsed.Error.Message
		}
		return "", apiErr
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("llm: no choices returned")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("llm: empty completion")
	}
	return text, nil
}

// Compile-time interface satisfaction check.
var _ Provider = (*Client)(nil)
