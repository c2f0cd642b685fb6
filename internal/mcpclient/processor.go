package mcpclient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dohr-michael/mcphost/internal/terminal"
)

// Processor lets the user pick MCP items interactively and resolves the
// placeholders that picking produces.
type Processor struct {
	manager *Manager
	display *terminal.Display
	reader  terminal.Reader
}

// NewProcessor creates a Processor over the connected servers of m.
func NewProcessor(m *Manager, display *terminal.Display, reader terminal.Reader) *Processor {
	return &Processor{manager: m, display: display, reader: reader}
}

// ListClients returns the connected server names.
func (p *Processor) ListClients() []string {
	return p.manager.Names()
}

// SelectClient asks the user for a server. It returns nil when there is
// none to choose from or the choice is invalid.
func (p *Processor) SelectClient(ctx context.Context) (*Client, error) {
	names := p.manager.Names()
	if len(names) == 0 {
		p.display.Warn("no MCP servers connected")
		return nil, nil
	}

	p.display.Title("MCP servers")
	idx, ok, err := terminal.Select(ctx, p.display, p.reader, "Select a server", names, "1")
	if err != nil {
		return nil, err
	}
	if !ok {
		p.display.Warn("invalid selection")
		return nil, nil
	}
	c, _ := p.manager.Client(names[idx])
	return c, nil
}

// InteractiveSelect walks the user through server, item kind and item,
// and returns the placeholder for the choice. ok is false when the user
// backs out at any step.
func (p *Processor) InteractiveSelect(ctx context.Context) (string, bool, error) {
	c, err := p.SelectClient(ctx)
	if err != nil || c == nil {
		return "", false, err
	}

	resources, err := c.ListResources(ctx)
	if err != nil {
		slog.Debug("list resources", "server", c.Name(), "error", err)
	}
	prompts, err := c.ListPrompts(ctx)
	if err != nil {
		slog.Debug("list prompts", "server", c.Name(), "error", err)
	}
	tools, err := c.ListTools(ctx)
	if err != nil {
		slog.Debug("list tools", "server", c.Name(), "error", err)
	}

	var (
		kinds  []Kind
		labels []string
	)
	if len(resources) > 0 {
		kinds = append(kinds, KindResource)
		labels = append(labels, fmt.Sprintf("Resources (%d)", len(resources)))
	}
	if len(prompts) > 0 {
		kinds = append(kinds, KindPrompt)
		labels = append(labels, fmt.Sprintf("Prompts (%d)", len(prompts)))
	}
	if len(tools) > 0 {
		kinds = append(kinds, KindTool)
		labels = append(labels, fmt.Sprintf("Tools (%d)", len(tools)))
	}
	if len(kinds) == 0 {
		p.display.Warn(fmt.Sprintf("%s offers no resources, prompts or tools", c.Name()))
		return "", false, nil
	}

	idx, ok, err := terminal.Select(ctx, p.display, p.reader, "Select a type", labels, "1")
	if err != nil || !ok {
		return "", false, err
	}

	ph := Placeholder{Server: c.Name(), Kind: kinds[idx]}
	switch ph.Kind {
	case KindResource:
		items := make([]string, len(resources))
		for i, r := range resources {
			items[i] = describe(r.URI, firstNonEmpty(r.Description, r.Name))
		}
		i, ok, err := terminal.Select(ctx, p.display, p.reader, "Select a resource", items, "")
		if err != nil || !ok {
			return "", false, err
		}
		ph.Name = resources[i].URI

	case KindPrompt:
		items := make([]string, len(prompts))
		for i, pr := range prompts {
			items[i] = describe(pr.Name, pr.Description)
		}
		i, ok, err := terminal.Select(ctx, p.display, p.reader, "Select a prompt", items, "")
		if err != nil || !ok {
			return "", false, err
		}
		ph.Name = prompts[i].Name
		if ph.Args, err = askArguments(ctx, p.display, p.reader, promptFields(prompts[i])); err != nil {
			return "", false, err
		}

	case KindTool:
		i, ok, err := terminal.Select(ctx, p.display, p.reader, "Select a tool", toolLabels(tools), "")
		if err != nil || !ok {
			return "", false, err
		}
		ph.Name = tools[i].Name
		if ph.Args, err = askToolArguments(ctx, p.display, p.reader, tools[i]); err != nil {
			return "", false, err
		}
	}

	slog.Info("mcp item selected", "server", ph.Server, "kind", ph.Kind, "name", ph.Name)
	return ph.String(), true, nil
}

// ResolvePlaceholders replaces every placeholder in text with the content
// it refers to. All placeholders are parsed before any server is called, and
// any failure aborts the whole text.
func (p *Processor) ResolvePlaceholders(ctx context.Context, text string) (string, error) {
	phs, err := FindPlaceholders(text)
	if err != nil {
		return "", err
	}
	if len(phs) == 0 {
		return text, nil
	}

	var b strings.Builder
	last := 0
	for i, loc := range placeholderRe.FindAllStringIndex(text, -1) {
		resolved, err := p.resolve(ctx, phs[i])
		if err != nil {
			return "", err
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(resolved)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

func (p *Processor) resolve(ctx context.Context, ph Placeholder) (string, error) {
	c, ok := p.manager.Client(ph.Server)
	if !ok {
		return "", fmt.Errorf("mcp server %q is not connected", ph.Server)
	}

	switch ph.Kind {
	case KindResource:
		return c.ReadResource(ctx, ph.Name)
	case KindPrompt:
		return c.GetPrompt(ctx, ph.Name, stringArgs(ph.Args))
	case KindTool:
		return c.CallTool(ctx, ph.Name, ph.Args)
	default:
		return "", fmt.Errorf("unknown placeholder kind %q", ph.Kind)
	}
}

// CleanupAll closes every server connection.
func (p *Processor) CleanupAll() error {
	return p.manager.CleanupAll()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
