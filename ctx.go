package agentline

import (
	"github.com/soochol/agentline/config"
	"github.com/soochol/agentline/provider"
)

// Ctx is the shared execution context agents communicate through: a string
// key/value scratch store, an ordered in-memory log, and a builder for
// outbound chat requests. A Ctx is not safe for concurrent use; give each
// concurrent run its own.
type Ctx struct {
	store map[string]string
	log   []string
	chat  *provider.Client
}

// NewCtx creates a context configured from the environment
// (see config.FromEnv).
func NewCtx() *Ctx {
	return NewCtxFrom(config.FromEnv())
}

// NewCtxFrom creates a context with explicit provider configuration.
func NewCtxFrom(cfg *config.Config) *Ctx {
	return &Ctx{
		store: make(map[string]string),
		chat:  provider.NewClient(cfg),
	}
}

// Set inserts or overwrites a key in the KV store.
func (c *Ctx) Set(key, value string) {
	c.store[key] = value
}

// Get looks up a key in the KV store.
func (c *Ctx) Get(key string) (string, bool) {
	v, ok := c.store[key]
	return v, ok
}

// Remove deletes a key from the KV store, returning its previous value.
func (c *Ctx) Remove(key string) (string, bool) {
	v, ok := c.store[key]
	if ok {
		delete(c.store, key)
	}
	return v, ok
}

// Log appends a message to the event log.
func (c *Ctx) Log(msg string) {
	c.log = append(c.log, msg)
}

// Logs returns all log messages in order.
func (c *Ctx) Logs() []string {
	return c.log
}

// ClearLogs empties the event log, leaving the KV store intact.
func (c *Ctx) ClearLogs() {
	c.log = nil
}

// Clear empties both the KV store and the event log.
func (c *Ctx) Clear() {
	c.store = make(map[string]string)
	c.log = nil
}

// Chat starts building a chat request against the configured provider.
func (c *Ctx) Chat() *ChatRequest {
	return &ChatRequest{client: c.chat}
}

// ChatRequest accumulates a system instruction and user messages, then sends
// them as one blocking chat-completion call.
type ChatRequest struct {
	client *provider.Client
	system string
	users  []string
}

// System sets the system instruction.
func (b *ChatRequest) System(msg string) *ChatRequest {
	b.system = msg
	return b
}

// User appends a user message.
func (b *ChatRequest) User(msg string) *ChatRequest {
	b.users = append(b.users, msg)
	return b
}

// Send performs the call and returns the assistant's response text. Network
// and response-format failures come back as transient errors.
func (b *ChatRequest) Send() (string, error) {
	messages := make([]provider.Message, 0, len(b.users)+1)
	if b.system != "" {
		messages = append(messages, provider.Message{Role: provider.RoleSystem, Content: b.system})
	}
	for _, u := range b.users {
		messages = append(messages, provider.Message{Role: provider.RoleUser, Content: u})
	}

	text, err := b.client.Chat(messages)
	if err != nil {
		return "", &StepError{Kind: KindTransient, Message: err.Error(), Err: err}
	}
	return text, nil
}
