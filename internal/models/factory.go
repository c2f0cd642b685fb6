package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/mcphost/internal/config"
)

// CreateModel creates the chat model `name` served by the provider described by cfg.
func CreateModel(ctx context.Context, cfg config.ProviderConfig, name string) (model.ToolCallingChatModel, error) {
	switch strings.ToLower(cfg.Driver) {
	case "ollama":
		return NewOllama(ctx, cfg, name)
	}

	auth, err := ResolveAuth(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve auth: %w", err)
	}

	switch strings.ToLower(cfg.Driver) {
	case "anthropic":
		return NewClaude(ctx, cfg, auth, name)
	case "openai", "deepseek":
		return NewOpenAI(ctx, cfg, auth, name)
	case "mistral":
		return NewMistral(ctx, cfg, auth, name)
	case "gemini":
		return NewGemini(ctx, cfg, auth, name)
	default:
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
}
