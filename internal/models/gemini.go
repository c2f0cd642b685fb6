package models

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/dohr-michael/mcphost/internal/config"
)

// NewGemini creates a Google Gemini chat model backed by the genai client.
func NewGemini(ctx context.Context, cfg config.ProviderConfig, auth ResolvedAuth, name string) (model.ToolCallingChatModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  auth.Value,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	modelConfig := &gemini.Config{
		Client: client,
		Model:  name,
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		modelConfig.MaxTokens = &maxTokens
	}

	return gemini.NewChatModel(ctx, modelConfig)
}
