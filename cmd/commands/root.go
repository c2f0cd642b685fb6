package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/mcphost/internal/config"
	"github.com/dohr-michael/mcphost/internal/host"
	"github.com/dohr-michael/mcphost/internal/llm"
	"github.com/dohr-michael/mcphost/internal/logging"
	"github.com/dohr-michael/mcphost/internal/mcpclient"
	"github.com/dohr-michael/mcphost/internal/models"
	"github.com/dohr-michael/mcphost/internal/sessions"
	"github.com/dohr-michael/mcphost/internal/terminal"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand(version string) *cli.Command {
	return &cli.Command{
		Name:    "mcphost",
		Usage:   "Chat with an LLM and pull in MCP resources, prompts and tools",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "llm-config",
				Aliases: []string{"l"},
				Usage:   "Path to the LLM config file",
				Value:   config.LLMConfigPath(),
			},
			&cli.StringFlag{
				Name:    "mcp-config",
				Aliases: []string{"m"},
				Usage:   "Path to the MCP servers config file",
				Value:   config.MCPConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: runHost,
		Commands: []*cli.Command{
			NewHistoriesCommand(),
			NewSecretsCommand(),
		},
	}
}

func runHost(ctx context.Context, cmd *cli.Command) error {
	logPath, logFile, err := logging.Setup(config.LogsPath(), cmd.Bool("debug"))
	if err != nil {
		return err
	}
	defer logFile.Close()

	version := cmd.Root().Version
	slog.Info("mcphost starting", "version", version, "log", logPath)

	llmCfg, err := config.Load(cmd.String("llm-config"))
	if err != nil {
		return fmt.Errorf("load llm config: %w", err)
	}
	client := llm.New(models.NewRegistry(*llmCfg), sessions.NewFileStore(config.HistoriesPath()))

	history, err := terminal.OpenHistory(config.InputHistoryPath())
	if err != nil {
		slog.Warn("input history unavailable", "error", err)
		history, _ = terminal.OpenHistory("")
	}
	reader := terminal.NewReader(os.Stdin, os.Stdout, history)
	display := terminal.NewDisplay(os.Stdout)

	h := host.New(host.Config{
		Name:         cmd.Root().Name,
		Version:      version,
		Inference:    client,
		Resolver:     newResolver(ctx, cmd.String("mcp-config"), version, display, reader),
		Reader:       reader,
		Display:      display,
		SystemPrompt: llmCfg.SystemPrompt,
		Closers:      []io.Closer{reader, history},
	})
	return h.Run(ctx)
}

// newResolver connects the configured MCP servers. It returns nil when the
// config cannot be read, leaving the host without ->mcp support.
func newResolver(ctx context.Context, path, version string, display *terminal.Display, reader terminal.Reader) host.Resolver {
	cfg, err := config.LoadMCP(path)
	if err != nil {
		slog.Error("mcp initialization failed", "path", path, "error", err)
		display.Warn("MCP initialization failed: " + err.Error())
		return nil
	}

	manager := mcpclient.NewManager(version, display, reader)
	if err := manager.Connect(ctx, cfg); err != nil {
		display.Warn("some MCP servers are unavailable: " + err.Error())
	}
	return processorResolver{mcpclient.NewProcessor(manager, display, reader)}
}

// processorResolver adapts *mcpclient.Processor to host.Resolver.
type processorResolver struct {
	*mcpclient.Processor
}

func (r processorResolver) SelectClient(ctx context.Context) (host.ToolClient, error) {
	c, err := r.Processor.SelectClient(ctx)
	if c == nil {
		// A nil *Client must not become a non-nil interface.
		return nil, err
	}
	return c, err
}
