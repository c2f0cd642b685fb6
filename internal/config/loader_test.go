package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `{
	// This is a JSONC comment
	"default": "deepseek",
	"providers": {
		"deepseek": {
			"driver": "openai",
			"base_url": "https://api.deepseek.com",
			"auth": {
				"api_key": "${{ .Env.DEEPSEEK_API_KEY }}"
			},
			"timeout": "90s",
			"models": {
				"chat": ["deepseek-chat"],
				"reasoning": ["deepseek-reasoner"],
			},
		},
	},
}`
	path := writeFile(t, "llm_config.jsonc", content)
	t.Setenv("DEEPSEEK_API_KEY", "test-key-123")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Default != "deepseek" {
		t.Errorf("expected default deepseek, got %s", cfg.Default)
	}

	p, ok := cfg.Providers["deepseek"]
	if !ok {
		t.Fatal("expected deepseek provider")
	}
	if p.Auth.APIKey != "test-key-123" {
		t.Errorf("expected api_key test-key-123, got %s", p.Auth.APIKey)
	}
	if p.Timeout.Duration() != 90*time.Second {
		t.Errorf("expected timeout 90s, got %s", p.Timeout.Duration())
	}
	if got := p.Models[KindReasoning]; len(got) != 1 || got[0] != "deepseek-reasoner" {
		t.Errorf("reasoning models = %v, want [deepseek-reasoner]", got)
	}
}

func TestLoadYAML(t *testing.T) {
	content := `
default: local
providers:
  local:
    driver: Ollama
    timeout: 2m
    models:
      chat: [llama3.2, qwen2.5]
`
	path := writeFile(t, "llm_config.yaml", content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	p := cfg.Providers["local"]
	if p.Driver != "ollama" {
		t.Errorf("Driver = %q, want %q", p.Driver, "ollama")
	}
	if p.Timeout.Duration() != 2*time.Minute {
		t.Errorf("Timeout = %s, want 2m", p.Timeout.Duration())
	}
	if len(p.Models[KindChat]) != 2 {
		t.Errorf("chat models = %v, want 2 entries", p.Models[KindChat])
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeFile(t, "llm_config.jsonc", `{"providers": {"openai": {"models": {"chat": ["gpt-4o"]}}}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Default != "openai" {
		t.Errorf("expected single provider to become default, got %q", cfg.Default)
	}
	if cfg.Providers["openai"].Driver != "openai" {
		t.Errorf("expected driver to default to provider name, got %q", cfg.Providers["openai"].Driver)
	}
}

func TestLoadEmpty(t *testing.T) {
	path := writeFile(t, "llm_config.jsonc", `{}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Providers == nil {
		t.Error("expected non-nil providers map")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.jsonc")); err == nil {
		t.Fatal("expected error for missing LLM config")
	}
}

func TestExpandEnvTemplates(t *testing.T) {
	t.Setenv("TEST_KEY", "my-secret")
	result := expandEnvTemplates(`{"key": "${{ .Env.TEST_KEY }}"}`)
	expected := `{"key": "my-secret"}`
	if result != expected {
		t.Errorf("expected %s, got %s", expected, result)
	}
}

func TestLoadMCP(t *testing.T) {
	content := `{
	"mcpServers": {
		"files": {"command": "npx", "args": ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"]},
		"remote": {"url": "http://127.0.0.1:8080/mcp", "timeout": "5s"},
		"off": {"command": "true", "disabled": true},
	},
}`
	path := writeFile(t, "mcp_config.json", content)

	cfg, err := LoadMCP(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Servers) != 3 {
		t.Fatalf("Servers len = %d, want 3", len(cfg.Servers))
	}
	if got := cfg.Servers["files"].Timeout.Duration(); got != defaultMCPTimeout {
		t.Errorf("files timeout = %s, want %s", got, defaultMCPTimeout)
	}
	if got := cfg.Servers["remote"].Timeout.Duration(); got != 5*time.Second {
		t.Errorf("remote timeout = %s, want 5s", got)
	}

	enabled := cfg.Enabled()
	if _, ok := enabled["off"]; ok {
		t.Error("disabled server should not be enabled")
	}
	if len(enabled) != 2 {
		t.Errorf("Enabled len = %d, want 2", len(enabled))
	}
}

func TestLoadMCPMissingFile(t *testing.T) {
	cfg, err := LoadMCP(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("LoadMCP: %v", err)
	}
	if len(cfg.Servers) != 0 {
		t.Errorf("Servers len = %d, want 0", len(cfg.Servers))
	}
}

func TestLoadMCPRequiresTarget(t *testing.T) {
	path := writeFile(t, "mcp_config.json", `{"mcpServers": {"broken": {}}}`)
	if _, err := LoadMCP(path); err == nil {
		t.Fatal("expected error for server without command or url")
	}
}
