// Package llm holds the conversation with the selected chat model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dohr-michael/mcphost/internal/callbacks"
	"github.com/dohr-michael/mcphost/internal/models"
	"github.com/dohr-michael/mcphost/internal/sessions"
)

// ErrNoModel is returned by Chat before a model has been selected.
var ErrNoModel = errors.New("no model selected")

// ModelSource lists and creates chat models.
type ModelSource interface {
	List() []models.ModelRef
	Get(ctx context.Context, ref models.ModelRef) (model.ToolCallingChatModel, error)
}

// Client is a single conversation with one chat model at a time.
// It is not safe for concurrent use.
type Client struct {
	source ModelSource
	store  sessions.Store

	ref          models.ModelRef
	current      model.BaseChatModel
	systemPrompt string
	history      []*schema.Message

	usage   *callbacks.Usage
	handler einocb.Handler
}

// New creates a Client. Saved histories go to store.
func New(source ModelSource, store sessions.Store) *Client {
	usage := &callbacks.Usage{}
	return &Client{
		source:  source,
		store:   store,
		usage:   usage,
		handler: callbacks.NewUsageHandler(usage),
	}
}

// ListModels returns the selectable models in display order.
func (c *Client) ListModels() []models.ModelRef {
	return c.source.List()
}

// SetModel switches the conversation to ref.
func (c *Client) SetModel(ctx context.Context, ref models.ModelRef) error {
	m, err := c.source.Get(ctx, ref)
	if err != nil {
		return fmt.Errorf("set model %s: %w", ref, err)
	}
	c.ref = ref
	c.current = m
	slog.Info("model selected", "kind", ref.Kind, "provider", ref.Provider, "model", ref.Name)
	return nil
}

func (c *Client) SetSystemPrompt(prompt string) {
	c.systemPrompt = strings.TrimSpace(prompt)
}

// ClearHistory forgets the conversation but keeps the system prompt.
func (c *Client) ClearHistory() {
	c.history = nil
	c.usage.Reset(0, 0)
}

// Usage returns the tokens consumed by the conversation so far.
func (c *Client) Usage() sessions.TokenUsage {
	in, out := c.usage.Totals()
	return sessions.TokenUsage{Input: in, Output: out}
}

// Chat sends message and returns the model's reasoning and answer. The
// exchange is added to the history only when the call succeeds.
func (c *Client) Chat(ctx context.Context, message string) (string, string, error) {
	if c.current == nil {
		return "", "", ErrNoModel
	}

	input := make([]*schema.Message, 0, len(c.history)+2)
	if c.systemPrompt != "" {
		input = append(input, schema.SystemMessage(c.systemPrompt))
	}
	input = append(input, c.history...)
	user := schema.UserMessage(message)
	input = append(input, user)

	slog.Debug("chat request", "model", c.ref.String(), "messages", len(input))

	ctx = einocb.InitCallbacks(ctx, &einocb.RunInfo{
		Name:      c.ref.Name,
		Type:      c.ref.Provider,
		Component: components.ComponentOfChatModel,
	}, c.handler)
	stream, err := c.current.Stream(ctx, input)
	if err != nil {
		return "", "", models.HandleError(err)
	}
	reasoning, content, err := consumeStream(stream)
	if err != nil {
		return "", "", models.HandleError(err)
	}

	c.history = append(c.history, user, &schema.Message{
		Role:             schema.Assistant,
		Content:          content,
		ReasoningContent: reasoning,
	})
	slog.Info("chat response", "model", c.ref.String(), "reasoning_len", len(reasoning), "content_len", len(content))
	return reasoning, content, nil
}

func consumeStream(stream *schema.StreamReader[*schema.Message]) (string, string, error) {
	defer stream.Close()

	var reasoning, content strings.Builder
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", "", fmt.Errorf("receive stream: %w", err)
		}
		if chunk == nil {
			continue
		}
		reasoning.WriteString(chunk.ReasoningContent)
		content.WriteString(chunk.Content)
	}
	return reasoning.String(), content.String(), nil
}

// Close drops the conversation state.
func (c *Client) Close() error {
	c.current = nil
	c.history = nil
	return nil
}
