package config

import (
	"os"
	"path/filepath"
)

// HostPath returns the root directory for mcphost data.
// It uses $MCPHOST_PATH if set, otherwise defaults to ~/.mcphost.
func HostPath() string {
	if v := os.Getenv("MCPHOST_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mcphost")
	}
	return filepath.Join(home, ".mcphost")
}

// LLMConfigPath returns the default path to the LLM provider config.
func LLMConfigPath() string {
	return filepath.Join(HostPath(), "llm_config.jsonc")
}

// MCPConfigPath returns the default path to the MCP server config.
func MCPConfigPath() string {
	return filepath.Join(HostPath(), "mcp_config.json")
}

// DotenvPath returns the path to the mcphost .env file.
func DotenvPath() string {
	return filepath.Join(HostPath(), ".env")
}

// LogsPath returns the directory holding log files.
func LogsPath() string {
	return filepath.Join(HostPath(), "logs")
}

// HistoriesPath returns the directory holding saved conversations.
func HistoriesPath() string {
	return filepath.Join(HostPath(), "histories")
}

// InputHistoryPath returns the file recording previously typed input lines.
func InputHistoryPath() string {
	return filepath.Join(HostPath(), "command_history", "history.txt")
}
