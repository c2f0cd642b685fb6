package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dohr-michael/mcphost/cmd/commands"
	"github.com/dohr-michael/mcphost/internal/config"
	"github.com/dohr-michael/mcphost/internal/logging"
	"github.com/dohr-michael/mcphost/internal/secrets"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := config.LoadDotenv(config.DotenvPath()); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}
	if _, err := secrets.DecryptEnv(secrets.KeyPath()); err != nil {
		slog.Warn("failed to decrypt secrets", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := commands.NewRootCommand(version)
	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("fatal", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if path := logging.FilePath(); path != "" {
			fmt.Fprintf(os.Stderr, "Log file location: %s\n", path)
		}
		fmt.Fprint(os.Stderr, "Press Enter to exit...")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		cancel()
		os.Exit(1)
	}
}
