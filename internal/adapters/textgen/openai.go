// Package textgen calls an OpenAI-compatible chat completion endpoint to
// turn trend summaries into natural-language predictions.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uforiaio/network-share-test-helper/internal/ports"
)

// Config holds the endpoint settings for the completion client.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ApplyDefaults fills zero values in place.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 500
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.7
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate reports configuration errors that defaults cannot repair.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("textgen: api key is required")
	}
	return nil
}

const systemPrompt = "You are a network performance analysis expert."

// Client implements ports.TextGenerator over the chat completions API.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ ports.TextGenerator = (*Client)(nil)

// New builds a Client. The configuration is validated by the caller.
func New(cfg Config) *Client {
	cfg.ApplyDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate sends the prompt and returns the first choice's content.
// A 429 from the endpoint maps to ports.ErrModelRateLimited so callers
// can fall back to heuristic analysis.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("textgen: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("textgen: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("textgen: call endpoint: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("textgen: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("textgen: %w", ports.ErrModelRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("textgen: endpoint returned %s: %s", resp.Status, truncate(raw, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("textgen: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("textgen: endpoint error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("textgen: response carried no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
