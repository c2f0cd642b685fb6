package mcpclient

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/mcphost/internal/config"
)

// newTransport builds the transport for one configured server: a child
// process over stdio when a command is set, streamable HTTP otherwise.
func newTransport(name string, cfg config.ServerConfig) (mcp.Transport, error) {
	switch {
	case cfg.Command != "":
		cmd := exec.Command(cfg.Command, cfg.Args...)
		cmd.Env = os.Environ()
		keys := make([]string, 0, len(cfg.Env))
		for k := range cfg.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Env = append(cmd.Env, k+"="+cfg.Env[k])
		}
		cmd.Stderr = newStderrLogger(name)
		return &mcp.CommandTransport{Command: cmd}, nil
	case cfg.URL != "":
		return &mcp.StreamableClientTransport{Endpoint: cfg.URL}, nil
	default:
		return nil, fmt.Errorf("mcp server %q: command or url is required", name)
	}
}

// stderrLogger forwards a server's stderr to the log.
type stderrLogger struct {
	server string
}

func newStderrLogger(server string) io.Writer {
	return stderrLogger{server: server}
}

func (l stderrLogger) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\r\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			slog.Debug("mcp server stderr", "server", l.server, "line", line)
		}
	}
	return len(p), nil
}
