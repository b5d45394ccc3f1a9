// Package config holds the chat-provider settings the shared execution
// context is constructed from. Settings come from an explicit YAML file, the
// process environment, or compiled-in defaults; they are read once at
// construction, never referenced ad hoc afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds chat-provider settings.
type Config struct {
	Provider  string        `yaml:"provider"`   // "ollama", "openai" or "anthropic"
	Model     string        `yaml:"model"`      // model name, e.g. "llama3.1:8b"
	BaseURL   string        `yaml:"base_url"`   // provider base URL
	APIKey    string        `yaml:"api_key"`    // API key, empty for local providers
	MaxTokens int           `yaml:"max_tokens"` // response budget / context size
	Timeout   time.Duration `yaml:"timeout"`    // HTTP timeout for chat requests
	Debug     bool          `yaml:"debug"`      // dump request/response traffic
}

// Default returns a Config for a local Ollama instance.
func Default() *Config {
	return &Config{
		Provider:  "ollama",
		Model:     "llama3.1:8b",
		BaseURL:   "http://localhost:11434",
		MaxTokens: 4096,
		Timeout:   60 * time.Second,
	}
}

// Load reads a YAML configuration file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// UnmarshalYAML overlays the YAML document onto the receiver, leaving fields
// the document omits untouched. Timeouts are written as Go duration strings
// ("30s", "2m").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Provider  string `yaml:"provider"`
		Model     string `yaml:"model"`
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		MaxTokens int    `yaml:"max_tokens"`
		Timeout   string `yaml:"timeout"`
		Debug     bool   `yaml:"debug"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Provider != "" {
		c.Provider = raw.Provider
	}
	if raw.Model != "" {
		c.Model = raw.Model
	}
	if raw.BaseURL != "" {
		c.BaseURL = raw.BaseURL
	}
	if raw.APIKey != "" {
		c.APIKey = raw.APIKey
	}
	if raw.MaxTokens != 0 {
		c.MaxTokens = raw.MaxTokens
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", raw.Timeout, err)
		}
		c.Timeout = d
	}
	if raw.Debug {
		c.Debug = true
	}
	return nil
}

// FromEnv builds a Config from AGENTLINE_* environment variables over the
// defaults. A .env file in the working directory is loaded first if present.
//
// Recognized variables: AGENTLINE_PROVIDER, AGENTLINE_MODEL,
// AGENTLINE_BASE_URL, AGENTLINE_API_KEY, AGENTLINE_MAX_TOKENS and
// AGENTLINE_DEBUG (set to any value to enable).
func FromEnv() *Config {
	_ = godotenv.Load()

	cfg := Default()
	if v := os.Getenv("AGENTLINE_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("AGENTLINE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("AGENTLINE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("AGENTLINE_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("AGENTLINE_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
		}
	}
	if _, ok := os.LookupEnv("AGENTLINE_DEBUG"); ok {
		cfg.Debug = true
	}
	return cfg
}
