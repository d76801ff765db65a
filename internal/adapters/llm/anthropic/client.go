package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"advisory-events/internal/domain/copilot"
	"advisory-events/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("anthropic client not configured")
	ErrUnauthorized  = errors.New("anthropic unauthorized")
	ErrUpstream      = errors.New("anthropic upstream error")
)

const (
	apiVersion     = "2023-06-01"
	defaultBaseURL = "https://api.anthropic.com"
	defaultTimeout = 60 * time.Second
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client habla con la Messages API. Implementa copilot.Generator.
type Client struct {
	apiKey string
	model  string
	http   *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  strings.TrimSpace(cfg.Model),
		http:   hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != "" && c.model != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Model   string         `json:"model"`
	Content []contentBlock `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *Client) Generate(ctx context.Context, p copilot.Prompt) (copilot.Completion, error) {
	if !c.IsConfigured() {
		return copilot.Completion{}, ErrNotConfigured
	}

	req := messagesRequest{
		Model:     c.model,
		MaxTokens: p.MaxTokens,
		System:    p.System,
		Messages:  []message{{Role: "user", Content: p.User}},
	}
	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": apiVersion,
	}

	var out messagesResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, "/v1/messages", headers, req, &out); err != nil {
		if httpclient.IsStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			return copilot.Completion{}, ErrUnauthorized
		}
		return copilot.Completion{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// Solo nos interesa el primer bloque de texto.
	text := ""
	for _, b := range out.Content {
		if b.Type == "text" {
			text = b.Text
			break
		}
	}

	model := out.Model
	if model == "" {
		model = c.model
	}
	return copilot.Completion{
		Text:         text,
		Model:        model,
		InputTokens:  out.Usage.InputTokens,
		OutputTokens: out.Usage.OutputTokens,
	}, nil
}
