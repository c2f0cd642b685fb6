package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Model kinds understood by the model catalog. Any other kind is accepted
// and listed after the known ones.
const (
	KindChat      = "chat"
	KindReasoning = "reasoning"
	KindVision    = "vision"
)

// LLMConfig is the root configuration of the inference client.
type LLMConfig struct {
	Default      string                    `json:"default" yaml:"default"`
	SystemPrompt string                    `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
	Providers    map[string]ProviderConfig `json:"providers" yaml:"providers"`
}

// ProviderConfig configures a single LLM provider and the models it serves.
type ProviderConfig struct {
	Driver    string              `json:"driver" yaml:"driver"` // "anthropic", "openai", "ollama", "gemini", "mistral"
	BaseURL   string              `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Auth      AuthConfig          `json:"auth" yaml:"auth"`
	MaxTokens int                 `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	Timeout   Duration            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Options   map[string]any      `json:"options,omitempty" yaml:"options,omitempty"`
	Models    map[string][]string `json:"models" yaml:"models"` // kind -> model names
}

// AuthConfig configures API key resolution.
type AuthConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Direct API key or ${{ .Env.VAR }} template
	Token  string `json:"token,omitempty" yaml:"token,omitempty"`     // Bearer token
}

// Duration wraps time.Duration for JSON and YAML unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return d.parse(s)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d *Duration) parse(s string) error {
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
