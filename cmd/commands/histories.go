package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/mcphost/internal/config"
	"github.com/dohr-michael/mcphost/internal/sessions"
	"github.com/dohr-michael/mcphost/internal/terminal"
)

// NewHistoriesCommand returns the histories subcommand.
func NewHistoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "histories",
		Usage: "Manage saved conversations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List saved conversations",
				Action: runHistoriesList,
			},
			{
				Name:      "show",
				Usage:     "Show a saved conversation",
				ArgsUsage: "<history_id>",
				Action:    runHistoriesShow,
			},
			{
				Name:      "export",
				Usage:     "Export a saved conversation as Markdown",
				ArgsUsage: "<history_id>",
				Action:    runHistoriesExport,
			},
		},
		DefaultCommand: "list",
	}
}

func newStore() *sessions.FileStore {
	return sessions.NewFileStore(config.HistoriesPath())
}

func runHistoriesList(_ context.Context, _ *cli.Command) error {
	list, err := newStore().List()
	if err != nil {
		return fmt.Errorf("list histories: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No saved conversations.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tMESSAGES\tUPDATED\tTITLE")
	for _, s := range list {
		title := s.Title
		if title == "" {
			title = "-"
		}
		model := s.Model
		if model == "" {
			model = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.ID,
			model,
			s.MessageCount,
			s.UpdatedAt.Format("2006-01-02 15:04"),
			title,
		)
	}
	return w.Flush()
}

func runHistoriesShow(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: mcphost histories show <history_id>")
	}

	store := newStore()
	s, err := store.Get(id)
	if err != nil {
		return fmt.Errorf("get history: %w", err)
	}
	msgs, err := store.LoadMessages(id)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	if len(msgs) == 0 {
		fmt.Println("No messages in this conversation.")
		return nil
	}

	display := terminal.NewDisplay(os.Stdout)
	display.Println(display.Markdown(sessions.RenderMarkdown(s, msgs)))
	return nil
}

func runHistoriesExport(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: mcphost histories export <history_id>")
	}

	path, err := newStore().Export(id)
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	fmt.Println(path)
	return nil
}
