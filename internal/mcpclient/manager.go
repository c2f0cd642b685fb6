// Package mcpclient connects to MCP servers and resolves the resources,
// prompts and tools they expose into text.
package mcpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/dohr-michael/mcphost/internal/config"
	"github.com/dohr-michael/mcphost/internal/terminal"
)

const maxParallelConnects = 4

// Manager owns the connections to the configured MCP servers.
type Manager struct {
	impl    *mcp.Implementation
	display *terminal.Display
	reader  terminal.Reader

	mu      sync.Mutex
	clients map[string]*Client
}

// NewManager creates a Manager. display and reader are used by clients for
// interactive tool runs.
func NewManager(version string, display *terminal.Display, reader terminal.Reader) *Manager {
	return &Manager{
		impl:    &mcp.Implementation{Name: "mcphost", Version: version},
		display: display,
		reader:  reader,
		clients: make(map[string]*Client),
	}
}

// Connect starts every enabled server in cfg. Servers that fail are logged
// and skipped; their errors are returned joined.
func (m *Manager) Connect(ctx context.Context, cfg *config.MCPConfig) error {
	enabled := cfg.Enabled()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(maxParallelConnects)

	for _, name := range sortedNames(enabled) {
		name, serverCfg := name, enabled[name]
		g.Go(func() error {
			transport, err := newTransport(name, serverCfg)
			if err == nil {
				_, err = m.ConnectTransport(ctx, name, transport, serverCfg.Timeout.Duration())
			}
			if err != nil {
				slog.Warn("mcp server unavailable", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("mcp servers connected", "connected", len(m.Names()), "configured", len(enabled))
	return errors.Join(errs...)
}

// ConnectTransport connects to one server over t and registers it as name.
func (m *Manager) ConnectTransport(ctx context.Context, name string, t mcp.Transport, timeout time.Duration) (*Client, error) {
	connectCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	session, err := mcp.NewClient(m.impl, nil).Connect(connectCtx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", name, err)
	}

	c := &Client{
		name:    name,
		session: session,
		timeout: timeout,
		display: m.display,
		reader:  m.reader,
	}

	m.mu.Lock()
	old := m.clients[name]
	m.clients[name] = c
	m.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			slog.Warn("close replaced mcp client", "server", name, "error", err)
		}
	}
	slog.Info("mcp server connected", "server", name)
	return c, nil
}

// Names returns the connected server names, sorted.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedNames(m.clients)
}

// Client returns the connected server called name.
func (m *Manager) Client(name string) (*Client, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[name]
	return c, ok
}

// CleanupAll closes every connection. Each close is attempted even if an
// earlier one failed.
func (m *Manager) CleanupAll() error {
	m.mu.Lock()
	clients := m.clients
	m.clients = make(map[string]*Client)
	m.mu.Unlock()

	var errs []error
	for _, name := range sortedNames(clients) {
		if err := clients[name].Close(); err != nil {
			slog.Error("mcp cleanup failed", "server", name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
