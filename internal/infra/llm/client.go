// Package llm validates and extracts tasks with the Anthropic Messages API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"
)

const (
	defaultModel      = "claude-3-5-haiku-latest"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3
	defaultRateLimit  = 1.0 // requests per second
	defaultBurst      = 1
	defaultMaxTokens  = 2048
)

// ClientOptions configures a Client.
type ClientOptions struct {
	HTTPClient *http.Client
	APIKey     string
	Model      string
	BaseURL    string
	RateLimit  rate.Limit // Requests per second (default 1)
	MaxRetries int        // Retries on 429, 5xx and connection errors (default 3)
}

// Client sends single-prompt completions to the Messages API.
type Client struct {
	api     anthropic.Client
	limiter *rate.Limiter
	model   string
}

// NewClient creates a Client. An API key is required.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("anthropic API key required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(maxRetries),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	c := &Client{
		api:   anthropic.NewClient(reqOpts...),
		model: opts.Model,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	c.limiter = rate.NewLimiter(limit, defaultBurst)
	return c, nil
}

// Complete returns the text of the first text block for prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("API error (%d): %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("API request failed: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", errors.New("empty response from API")
}
