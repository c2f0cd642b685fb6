package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHostPath_Default(t *testing.T) {
	t.Setenv("MCPHOST_PATH", "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	got := HostPath()
	want := filepath.Join(home, ".mcphost")
	if got != want {
		t.Errorf("HostPath() = %q, want %q", got, want)
	}
}

func TestHostPath_EnvOverride(t *testing.T) {
	t.Setenv("MCPHOST_PATH", "/tmp/custom-host")

	got := HostPath()
	want := "/tmp/custom-host"
	if got != want {
		t.Errorf("HostPath() = %q, want %q", got, want)
	}
}

func TestDerivedPaths(t *testing.T) {
	t.Setenv("MCPHOST_PATH", "/tmp/test-host")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"LLMConfigPath", LLMConfigPath(), "/tmp/test-host/llm_config.jsonc"},
		{"MCPConfigPath", MCPConfigPath(), "/tmp/test-host/mcp_config.json"},
		{"DotenvPath", DotenvPath(), "/tmp/test-host/.env"},
		{"LogsPath", LogsPath(), "/tmp/test-host/logs"},
		{"HistoriesPath", HistoriesPath(), "/tmp/test-host/histories"},
		{"InputHistoryPath", InputHistoryPath(), "/tmp/test-host/command_history/history.txt"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
