package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// MCPConfig lists the MCP servers the resolver connects to, in the
// {"mcpServers": {...}} shape shared by most MCP hosts.
type MCPConfig struct {
	Servers map[string]ServerConfig `json:"mcpServers" yaml:"mcpServers"`
}

// ServerConfig describes how to reach one MCP server. Command starts a stdio
// server; URL connects to a streamable HTTP endpoint.
type ServerConfig struct {
	Command  string            `json:"command,omitempty" yaml:"command,omitempty"`
	Args     []string          `json:"args,omitempty" yaml:"args,omitempty"`
	Env      map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	URL      string            `json:"url,omitempty" yaml:"url,omitempty"`
	Disabled bool              `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Timeout  Duration          `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

const defaultMCPTimeout = 30 * time.Second

// LoadMCP reads the MCP server config. A missing file yields an empty config.
func LoadMCP(path string) (*MCPConfig, error) {
	var cfg MCPConfig
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg.Servers = map[string]ServerConfig{}
		return &cfg, nil
	}
	if err := decodeFile(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Servers == nil {
		cfg.Servers = map[string]ServerConfig{}
	}
	for name, s := range cfg.Servers {
		if s.Command == "" && s.URL == "" {
			return nil, fmt.Errorf("mcp server %q: command or url is required", name)
		}
		if s.Timeout == 0 {
			s.Timeout = Duration(defaultMCPTimeout)
			cfg.Servers[name] = s
		}
	}
	return &cfg, nil
}

// Enabled returns the servers that are not disabled.
func (c *MCPConfig) Enabled() map[string]ServerConfig {
	out := make(map[string]ServerConfig, len(c.Servers))
	for name, s := range c.Servers {
		if !s.Disabled {
			out[name] = s
		}
	}
	return out
}
