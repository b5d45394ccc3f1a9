// Package provider implements the chat-completion transport behind the
// shared execution context. It knows each provider's endpoint layout,
// request-body shape, auth headers and response format; everything above it
// only sees messages in and text out.
package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Provider identifies a chat-completion API family.
type Provider string

const (
	// Ollama is the default: local inference, no API key needed.
	Ollama Provider = "ollama"
	// OpenAI covers the OpenAI API and compatible services (OpenRouter, etc.).
	OpenAI Provider = "openai"
	// Anthropic is the Anthropic messages API.
	Anthropic Provider = "anthropic"
)

// Parse maps a provider name to a Provider. Unrecognized values default
// to Ollama.
func Parse(s string) Provider {
	switch strings.ToLower(s) {
	case "openai":
		return OpenAI
	case "anthropic":
		return Anthropic
	default:
		return Ollama
	}
}

// Endpoint returns the full chat endpoint URL for this provider.
func (p Provider) Endpoint(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	switch p {
	case OpenAI:
		return base + "/v1/chat/completions"
	case Anthropic:
		return base + "/v1/messages"
	default:
		return base + "/api/chat"
	}
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a chat conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// parseResponse extracts the assistant message from a provider-specific
// JSON response body.
func (p Provider) parseResponse(data []byte) (string, error) {
	switch p {
	case OpenAI:
		var resp openAIResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("chat response missing message content")
		}
		return resp.Choices[0].Message.Content, nil
	case Anthropic:
		var resp anthropicResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if len(resp.Content) == 0 {
			return "", fmt.Errorf("chat response missing message content")
		}
		return resp.Content[0].Text, nil
	default:
		var resp ollamaResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if resp.Message.Content == "" {
			return "", fmt.Errorf("chat response missing message content")
		}
		return resp.Message.Content, nil
	}
}
