package models

import (
	"context"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/mcphost/internal/config"
)

const defaultDeepSeekBaseURL = "https://api.deepseek.com"

// NewOpenAI creates a chat model for OpenAI or any OpenAI-compatible API
// (DeepSeek when the driver is "deepseek").
func NewOpenAI(ctx context.Context, cfg config.ProviderConfig, auth ResolvedAuth, name string) (model.ToolCallingChatModel, error) {
	modelConfig := &einoopenai.ChatModelConfig{
		APIKey:  auth.Value,
		Model:   name,
		BaseURL: cfg.BaseURL,
	}

	if modelConfig.BaseURL == "" && cfg.Driver == "deepseek" {
		modelConfig.BaseURL = defaultDeepSeekBaseURL
	}

	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		modelConfig.MaxCompletionTokens = &maxTokens
	}

	if cfg.Timeout.Duration() > 0 {
		modelConfig.Timeout = cfg.Timeout.Duration()
	} else {
		modelConfig.Timeout = 120 * time.Second
	}

	if temp, ok := optionFloat(cfg.Options, "temperature"); ok {
		t := float32(temp)
		modelConfig.Temperature = &t
	}

	return einoopenai.NewChatModel(ctx, modelConfig)
}
