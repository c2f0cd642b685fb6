package models

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	einoollama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/mcphost/internal/config"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaTimeout = 300 * time.Second
	maxErrorBody         = 512
)

// NewOllama creates a chat model served by a local or remote Ollama daemon.
func NewOllama(ctx context.Context, cfg config.ProviderConfig, name string) (model.ToolCallingChatModel, error) {
	return einoollama.NewChatModel(ctx, ollamaChatConfig(cfg, name))
}

// ollamaChatConfig maps a provider entry onto the eino Ollama config. Requests
// go through responseGuard so proxy error pages surface as ErrModelUnavailable.
func ollamaChatConfig(cfg config.ProviderConfig, name string) *einoollama.ChatModelConfig {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	timeout := cfg.Timeout.Duration()
	if timeout <= 0 {
		timeout = defaultOllamaTimeout
	}

	opts := &einoollama.Options{}
	if cfg.MaxTokens > 0 {
		opts.NumPredict = cfg.MaxTokens
	}
	if v, ok := optionFloat(cfg.Options, "temperature"); ok {
		opts.Temperature = float32(v)
	}
	if v, ok := optionFloat(cfg.Options, "top_p"); ok {
		opts.TopP = float32(v)
	}
	if v, ok := optionFloat(cfg.Options, "num_ctx"); ok {
		opts.NumCtx = int(v)
	}

	return &einoollama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   name,
		Timeout: timeout,
		Options: opts,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: &responseGuard{next: http.DefaultTransport, provider: "ollama"},
		},
	}
}

// optionFloat reads a numeric option. JSON decodes numbers as float64, YAML
// as int or float64.
func optionFloat(opts map[string]any, key string) (float64, bool) {
	switch v := opts[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// responseGuard turns transport failures, error statuses and non-JSON bodies
// into ErrModelUnavailable before the SDK tries to decode them.
type responseGuard struct {
	next     http.RoundTripper
	provider string
}

func (g *responseGuard) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := g.next.RoundTrip(req)
	if err != nil {
		return nil, &ErrModelUnavailable{Provider: g.provider, Cause: err}
	}
	if resp.StatusCode >= 400 || !isJSONContent(resp.Header.Get("Content-Type")) {
		return nil, g.reject(resp)
	}
	return resp, nil
}

func (g *responseGuard) reject(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &ErrModelUnavailable{Provider: g.provider, Body: strings.TrimSpace(string(body))}
}

// isJSONContent accepts application/json, application/x-ndjson and a missing header.
func isJSONContent(contentType string) bool {
	return contentType == "" || strings.Contains(contentType, "json")
}
