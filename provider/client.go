package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/soochol/agentline/config"
)

// Client performs blocking chat-completion calls against one configured
// provider. It is safe for concurrent use.
type Client struct {
	provider  Provider
	baseURL   string
	model     string
	apiKey    string
	maxTokens int
	debug     bool
	http      *http.Client
}

// NewClient builds a Client from cfg.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		provider:  Parse(cfg.Provider),
		baseURL:   cfg.BaseURL,
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
		debug:     cfg.Debug,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Provider returns the provider this client talks to.
func (c *Client) Provider() Provider { return c.provider }

// Chat sends the messages and returns the assistant's response text.
func (c *Client) Chat(messages []Message) (string, error) {
	body, err := json.Marshal(c.buildRequestBody(messages))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.provider.Endpoint(c.baseURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	switch c.provider {
	case Anthropic:
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}
		req.Header.Set("anthropic-version", "2023-06-01")
	default:
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
	}

	if c.debug {
		slog.Debug("chat request", "url", url, "body", string(body))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat request failed: status %d: %s", resp.StatusCode, string(data))
	}

	if c.debug {
		slog.Debug("chat response", "status", resp.StatusCode, "body", string(data))
	}

	return c.provider.parseResponse(data)
}

func (c *Client) buildRequestBody(messages []Message) map[string]any {
	body := map[string]any{
		"model":    c.model,
		"messages": messages,
		"stream":   false,
	}
	switch c.provider {
	case Ollama:
		body["options"] = map[string]any{"num_ctx": c.maxTokens}
	default:
		body["max_tokens"] = c.maxTokens
	}
	return body
}
