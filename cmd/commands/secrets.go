package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dohr-michael/mcphost/internal/config"
	"github.com/dohr-michael/mcphost/internal/secrets"
)

// NewSecretsCommand returns the secrets subcommand.
func NewSecretsCommand() *cli.Command {
	return &cli.Command{
		Name:  "secrets",
		Usage: "Store provider API keys encrypted in the .env file",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the encryption key and print its public key",
				Action: runSecretsInit,
			},
			{
				Name:      "set",
				Usage:     "Encrypt a value and store it in .env",
				ArgsUsage: "<NAME> [value]",
				Action:    runSecretsSet,
			},
		},
	}
}

func runSecretsInit(_ context.Context, _ *cli.Command) error {
	recipient, err := secrets.GenerateIdentity(secrets.KeyPath())
	if err != nil {
		return err
	}
	fmt.Printf("Key: %s\nPublic key: %s\n", secrets.KeyPath(), recipient)
	return nil
}

func runSecretsSet(_ context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	if name == "" {
		return fmt.Errorf("usage: mcphost secrets set <NAME> [value]")
	}

	value := cmd.Args().Get(1)
	if value == "" {
		v, err := readSecret(name)
		if err != nil {
			return err
		}
		value = v
	}
	if value == "" {
		return fmt.Errorf("empty value for %s", name)
	}

	recipient, err := secrets.GenerateIdentity(secrets.KeyPath())
	if err != nil {
		return err
	}
	blob, err := secrets.Encrypt(value, recipient)
	if err != nil {
		return err
	}
	if err := secrets.SetEntry(config.DotenvPath(), name, blob); err != nil {
		return fmt.Errorf("write %s: %w", config.DotenvPath(), err)
	}
	fmt.Printf("%s stored encrypted in %s\n", name, config.DotenvPath())
	return nil
}

// readSecret reads the value from the terminal without echo, or from the
// first line of stdin when it is not a terminal.
func readSecret(name string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprintf(os.Stderr, "%s: ", name)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read value: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read value: %w", err)
	}
	return strings.TrimSpace(line), nil
}
