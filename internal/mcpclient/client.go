package mcpclient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/mcphost/internal/terminal"
)

// Client is one connected MCP server.
type Client struct {
	name    string
	session *mcp.ClientSession
	timeout time.Duration
	display *terminal.Display
	reader  terminal.Reader
}

// Name returns the configured server name.
func (c *Client) Name() string {
	return c.name
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ListTools returns every tool the server offers.
func (c *Client) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var tools []*mcp.Tool
	params := &mcp.ListToolsParams{}
	for {
		res, err := c.session.ListTools(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("list tools on %s: %w", c.name, err)
		}
		tools = append(tools, res.Tools...)
		if res.NextCursor == "" {
			return tools, nil
		}
		params.Cursor = res.NextCursor
	}
}

// ListResources returns every resource the server offers.
func (c *Client) ListResources(ctx context.Context) ([]*mcp.Resource, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var resources []*mcp.Resource
	params := &mcp.ListResourcesParams{}
	for {
		res, err := c.session.ListResources(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("list resources on %s: %w", c.name, err)
		}
		resources = append(resources, res.Resources...)
		if res.NextCursor == "" {
			return resources, nil
		}
		params.Cursor = res.NextCursor
	}
}

// ListPrompts returns every prompt the server offers.
func (c *Client) ListPrompts(ctx context.Context) ([]*mcp.Prompt, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var prompts []*mcp.Prompt
	params := &mcp.ListPromptsParams{}
	for {
		res, err := c.session.ListPrompts(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("list prompts on %s: %w", c.name, err)
		}
		prompts = append(prompts, res.Prompts...)
		if res.NextCursor == "" {
			return prompts, nil
		}
		params.Cursor = res.NextCursor
	}
}

// ReadResource returns the text of a resource.
func (c *Client) ReadResource(ctx context.Context, uri string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.session.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
	if err != nil {
		return "", fmt.Errorf("read resource %s on %s: %w", uri, c.name, err)
	}

	parts := make([]string, 0, len(res.Contents))
	for _, rc := range res.Contents {
		if rc == nil {
			continue
		}
		if rc.Text != "" {
			parts = append(parts, rc.Text)
			continue
		}
		if len(rc.Blob) > 0 {
			parts = append(parts, fmt.Sprintf("[binary resource %s (%s, %d bytes)]", rc.URI, rc.MIMEType, len(rc.Blob)))
		}
	}
	return strings.Join(parts, "\n"), nil
}

// GetPrompt renders a prompt with the given arguments as text.
func (c *Client) GetPrompt(ctx context.Context, name string, args map[string]string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.session.GetPrompt(ctx, &mcp.GetPromptParams{Name: name, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("get prompt %s on %s: %w", name, c.name, err)
	}

	parts := make([]string, 0, len(res.Messages))
	for _, msg := range res.Messages {
		if msg == nil {
			continue
		}
		parts = append(parts, contentText(msg.Content))
	}
	return strings.Join(parts, "\n\n"), nil
}

// CallTool runs a tool and returns its text output. A result flagged as an
// error is returned as an error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if args == nil {
		args = map[string]any{}
	}
	slog.Info("mcp tool call", "server", c.name, "tool", name)

	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("call tool %s on %s: %w", name, c.name, err)
	}

	parts := make([]string, 0, len(res.Content))
	for _, content := range res.Content {
		parts = append(parts, contentText(content))
	}
	text := strings.Join(parts, "\n")
	if res.IsError {
		return "", fmt.Errorf("tool %s on %s failed: %s", name, c.name, text)
	}
	return text, nil
}

// SelectAndRunTool lets the user pick one of tools, asks for its
// arguments and runs it. The result is printed and returned.
func (c *Client) SelectAndRunTool(ctx context.Context, tools []*mcp.Tool) (string, error) {
	if len(tools) == 0 {
		return "", fmt.Errorf("server %s has no tools", c.name)
	}

	c.display.Title(fmt.Sprintf("Tools on %s", c.name))
	idx, ok, err := terminal.Select(ctx, c.display, c.reader, "Select a tool", toolLabels(tools), "")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("invalid tool selection")
	}
	tool := tools[idx]

	args, err := askToolArguments(ctx, c.display, c.reader, tool)
	if err != nil {
		return "", err
	}

	result, err := c.CallTool(ctx, tool.Name, args)
	if err != nil {
		return "", err
	}
	c.display.Info(fmt.Sprintf("Result of %s:", tool.Name))
	c.display.Println(c.display.Markdown(result))
	return result, nil
}

// Close ends the session with the server.
func (c *Client) Close() error {
	if err := c.session.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.name, err)
	}
	return nil
}

func toolLabels(tools []*mcp.Tool) []string {
	labels := make([]string, len(tools))
	for i, t := range tools {
		labels[i] = describe(t.Name, t.Description)
	}
	return labels
}

func describe(name, description string) string {
	description = strings.Join(strings.Fields(description), " ")
	if description == "" {
		return name
	}
	if r := []rune(description); len(r) > 80 {
		description = string(r[:77]) + "..."
	}
	return name + " - " + description
}

// contentText flattens one MCP content block to text.
func contentText(content mcp.Content) string {
	switch c := content.(type) {
	case *mcp.TextContent:
		return c.Text
	case *mcp.ImageContent:
		return fmt.Sprintf("[image %s, %d bytes]", c.MIMEType, len(c.Data))
	case *mcp.AudioContent:
		return fmt.Sprintf("[audio %s, %d bytes]", c.MIMEType, len(c.Data))
	case *mcp.EmbeddedResource:
		if c.Resource == nil {
			return ""
		}
		if c.Resource.Text != "" {
			return c.Resource.Text
		}
		return fmt.Sprintf("[resource %s]", c.Resource.URI)
	case *mcp.ResourceLink:
		return fmt.Sprintf("[resource link %s]", c.URI)
	case nil:
		return ""
	default:
		return fmt.Sprintf("[%T]", content)
	}
}
