package llm

import (
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/schema"

	"github.com/dohr-michael/mcphost/internal/sessions"
)

// SaveHistory writes the conversation under handle, or under a new handle
// when handle is empty or unknown, and returns the handle used.
func (c *Client) SaveHistory(handle string) (string, error) {
	var s *sessions.Session
	if handle != "" {
		existing, err := c.store.Get(handle)
		if err != nil {
			slog.Warn("saved history not found, creating a new one", "handle", handle, "error", err)
		} else {
			s = existing
		}
	}
	if s == nil {
		created, err := c.store.Create()
		if err != nil {
			return "", fmt.Errorf("create history: %w", err)
		}
		s = created
	}

	msgs := make([]sessions.Message, 0, len(c.history))
	for _, m := range c.history {
		msgs = append(msgs, sessions.NewMessageFromSchema(m))
	}

	s.Title = sessions.TitleFrom(msgs)
	s.SystemPrompt = c.systemPrompt
	s.TokenUsage = c.Usage()
	if c.current != nil {
		s.Model = c.ref.String()
	}
	if err := c.store.UpdateMeta(s); err != nil {
		return "", fmt.Errorf("update history meta: %w", err)
	}
	if err := c.store.ReplaceMessages(s.ID, msgs); err != nil {
		return "", fmt.Errorf("save history messages: %w", err)
	}

	slog.Info("history saved", "handle", s.ID, "messages", len(msgs))
	return s.ID, nil
}

// ExportHistory writes a Markdown transcript of a saved history.
func (c *Client) ExportHistory(handle string) (string, error) {
	path, err := c.store.Export(handle)
	if err != nil {
		return "", fmt.Errorf("export history: %w", err)
	}
	return path, nil
}

// LoadHistory replaces the conversation with a saved one.
func (c *Client) LoadHistory(handle string) error {
	s, err := c.store.Get(handle)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	msgs, err := c.store.LoadMessages(handle)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	history := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, m.ToSchemaMessage())
	}
	c.history = history
	c.systemPrompt = s.SystemPrompt
	c.usage.Reset(s.TokenUsage.Input, s.TokenUsage.Output)

	slog.Info("history loaded", "handle", handle, "messages", len(history))
	return nil
}

// ListSavedHistories returns saved histories, most recent first.
func (c *Client) ListSavedHistories() ([]*sessions.Session, error) {
	list, err := c.store.List()
	if err != nil {
		return nil, fmt.Errorf("list histories: %w", err)
	}
	return list, nil
}
