package models

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/mcphost/internal/config"
)

const defaultClaudeMaxTokens = 4096

// NewClaude creates an Anthropic chat model.
func NewClaude(ctx context.Context, cfg config.ProviderConfig, auth ResolvedAuth, name string) (model.ToolCallingChatModel, error) {
	if auth.Kind == AuthBearerToken {
		return nil, fmt.Errorf("anthropic driver: bearer tokens are not supported, use auth.api_key")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultClaudeMaxTokens
	}

	modelConfig := &claude.Config{
		APIKey:    auth.Value,
		Model:     name,
		MaxTokens: maxTokens,
	}
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		modelConfig.BaseURL = &baseURL
	}
	if temp, ok := optionFloat(cfg.Options, "temperature"); ok {
		t := float32(temp)
		modelConfig.Temperature = &t
	}

	return claude.NewChatModel(ctx, modelConfig)
}
