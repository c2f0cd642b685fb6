// Package sessions persists saved conversation histories.
package sessions

import (
	"time"

	"github.com/cloudwego/eino/schema"
)

// TokenUsage tracks cumulative token consumption for a conversation.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// Session holds metadata about a saved conversation.
type Session struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Model        string            `json:"model,omitempty"`
	SystemPrompt string            `json:"system_prompt,omitempty"`
	MessageCount int               `json:"message_count"`
	TokenUsage   TokenUsage        `json:"token_usage"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Message is a single turn in a conversation, serializable to JSONL.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Reasoning string    `json:"reasoning,omitempty"`
	Ts        time.Time `json:"ts"`
}

// ToSchemaMessage converts a session Message to an Eino schema.Message.
func (m Message) ToSchemaMessage() *schema.Message {
	return &schema.Message{
		Role:             schema.RoleType(m.Role),
		Content:          m.Content,
		ReasoningContent: m.Reasoning,
	}
}

// NewMessageFromSchema converts an Eino schema.Message to a session Message.
func NewMessageFromSchema(msg *schema.Message) Message {
	return Message{
		Role:      string(msg.Role),
		Content:   msg.Content,
		Reasoning: msg.ReasoningContent,
		Ts:        time.Now(),
	}
}

// Store defines the persistence interface for saved histories.
type Store interface {
	Create() (*Session, error)
	Get(id string) (*Session, error)
	List() ([]*Session, error)
	UpdateMeta(s *Session) error
	AppendMessage(sessionID string, msg Message) error
	ReplaceMessages(sessionID string, msgs []Message) error
	LoadMessages(sessionID string) ([]Message, error)
	Export(sessionID string) (string, error)
}
