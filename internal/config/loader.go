package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

var envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)

// Load reads the LLM config file. YAML is used for .yaml/.yml files, JSONC
// (JSON with comments and trailing commas) otherwise. ${{ .Env.VAR }}
// templates are expanded before parsing.
func Load(path string) (*LLMConfig, error) {
	var cfg LLMConfig
	if err := decodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	expanded := []byte(expandEnvTemplates(string(data)))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(expanded, v); err != nil {
			return fmt.Errorf("unmarshal yaml config: %w", err)
		}
		return nil
	}

	std, err := hujson.Standardize(expanded)
	if err != nil {
		return fmt.Errorf("parse jsonc config: %w", err)
	}
	if err := json.Unmarshal(std, v); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *LLMConfig) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	for name, p := range cfg.Providers {
		if p.Driver == "" {
			p.Driver = name
		}
		p.Driver = strings.ToLower(p.Driver)
		if len(p.Models) == 0 {
			p.Models = map[string][]string{}
		}
		cfg.Providers[name] = p
	}
	if cfg.Default == "" && len(cfg.Providers) == 1 {
		for name := range cfg.Providers {
			cfg.Default = name
		}
	}
}
