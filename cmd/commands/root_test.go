package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dohr-michael/mcphost/internal/config"
	"github.com/dohr-michael/mcphost/internal/terminal"
)

func TestNewRootCommandFlags(t *testing.T) {
	cmd := NewRootCommand("1.2.3")
	if cmd.Version != "1.2.3" {
		t.Errorf("Version = %q", cmd.Version)
	}
	for _, name := range []string{"llm-config", "mcp-config", "debug"} {
		found := false
		for _, f := range cmd.Flags {
			for _, n := range f.Names() {
				if n == name {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("flag --%s missing", name)
		}
	}
}

func TestResolverWithoutServers(t *testing.T) {
	t.Setenv("MCPHOST_PATH", t.TempDir())

	out := &strings.Builder{}
	display := terminal.NewDisplay(out)
	reader := terminal.NewLineReader(strings.NewReader(""), out)
	defer reader.Close()

	res := newResolver(context.Background(), config.MCPConfigPath(), "test", display, reader)
	if res == nil {
		t.Fatal("resolver is nil for a missing config file")
	}
	defer res.CleanupAll()

	if names := res.ListClients(); len(names) != 0 {
		t.Errorf("ListClients = %v", names)
	}
	c, err := res.SelectClient(context.Background())
	if err != nil {
		t.Fatalf("SelectClient: %v", err)
	}
	if c != nil {
		t.Errorf("SelectClient = %#v, want a nil interface", c)
	}
}

func TestResolverBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	if err := os.WriteFile(path, []byte(`{"mcpServers": {"broken": {}}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out := &strings.Builder{}
	display := terminal.NewDisplay(out)
	reader := terminal.NewLineReader(strings.NewReader(""), out)
	defer reader.Close()

	if res := newResolver(context.Background(), path, "test", display, reader); res != nil {
		t.Errorf("resolver = %v, want nil", res)
	}
	if !strings.Contains(out.String(), "MCP initialization failed") {
		t.Errorf("output = %q", out.String())
	}
}
