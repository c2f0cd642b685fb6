package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dohr-michael/mcphost/internal/terminal"
)

// setupMode asks for the session mode until a usable outcome is reached.
func (h *Host) setupMode(ctx context.Context) (Mode, error) {
	for {
		h.display.Title("Please select running mode:")
		h.display.Numbered([]string{"Chat mode", "Tool mode"})
		choice, err := terminal.Ask(ctx, h.reader, "Please select [1/2]", "1")
		if err != nil {
			return ModeUnset, err
		}

		switch choice {
		case "1":
			mode, err := h.chatMode(ctx)
			if errors.Is(err, errBackToMenu) {
				continue
			}
			return mode, err
		case "2":
			return h.toolMode(ctx)
		default:
			h.display.Warn(fmt.Sprintf("%q is not a valid choice", choice))
		}
	}
}

// toolMode runs tools until the user stops. It reports ModeTool when at
// least one tool ran.
func (h *Host) toolMode(ctx context.Context) (Mode, error) {
	if h.resolver == nil {
		h.display.Error(ErrResolverUnavailable.Error())
		return ModeUnset, nil
	}

	runs := 0
	for {
		client, err := h.resolver.SelectClient(ctx)
		if err != nil {
			if userLeft(ctx, err) {
				return h.toolOutcome(runs), err
			}
			slog.Error("select client failed", "error", err)
			h.display.Error("Failed to get client list: " + err.Error())
			break
		}
		if client == nil {
			break
		}

		tools, err := client.ListTools(ctx)
		if err != nil {
			if userLeft(ctx, err) {
				return h.toolOutcome(runs), err
			}
			slog.Error("list tools failed", "server", client.Name(), "error", err)
			h.display.Error(err.Error())
			continue
		}
		if len(tools) == 0 {
			h.display.Warn(client.Name() + " has no available tools")
			break
		}

		if _, err := client.SelectAndRunTool(ctx, tools); err != nil {
			if userLeft(ctx, err) {
				return h.toolOutcome(runs), err
			}
			slog.Error("tool run failed", "server", client.Name(), "error", err)
			h.display.Error("Error occurred while executing tool: " + err.Error())
			continue
		}
		runs++

		again, err := h.reader.ReadLine(ctx, "Continue using tools? [y/N]: ", "")
		if err != nil {
			return h.toolOutcome(runs), err
		}
		if !strings.EqualFold(strings.TrimSpace(again), "y") {
			break
		}
	}
	return h.toolOutcome(runs), nil
}

// userLeft reports whether an error from an MCP round trip means the user
// left: Ctrl+C at one of its prompts or a cancelled context. Anything else,
// including server errors that wrap io.EOF, is a failure to report.
func userLeft(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, terminal.ErrInterrupted)
}

func (h *Host) toolOutcome(runs int) Mode {
	if runs > 0 {
		return ModeTool
	}
	return ModeUnset
}

// chatMode selects the model and how the conversation starts.
func (h *Host) chatMode(ctx context.Context) (Mode, error) {
	if err := h.setupModel(ctx); err != nil {
		return ModeUnset, err
	}

	h.display.Title("Please select how to start:")
	h.display.Numbered([]string{
		"Set system prompt, then start new conversation",
		"Start new conversation directly",
		"Load conversation history",
	})
	choice, err := terminal.Ask(ctx, h.reader, "Please select [1/2/3]", "2")
	if err != nil {
		return ModeUnset, err
	}

	switch choice {
	case "1":
		if err := h.setupSystemPrompt(ctx); err != nil {
			return ModeUnset, err
		}
	case "3":
		if err := h.loadHistory(ctx); err != nil {
			return ModeUnset, err
		}
	default:
		if h.systemPrompt != "" {
			h.inference.SetSystemPrompt(h.systemPrompt)
		}
	}
	return ModeChat, nil
}

// setupModel lists the models and sets the chosen one.
func (h *Host) setupModel(ctx context.Context) error {
	refs := h.inference.ListModels()
	if len(refs) == 0 {
		return ErrNoModelsAvailable
	}

	h.display.Title("Available models:")
	labels := make([]string, len(refs))
	for i, ref := range refs {
		labels[i] = ref.String()
	}
	idx, ok, err := terminal.Select(ctx, h.display, h.reader, "Please select model number", labels, "1")
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidSelection
	}

	ref := refs[idx]
	if err := h.inference.SetModel(ctx, ref); err != nil {
		return fmt.Errorf("select model: %w", err)
	}
	h.display.Info("Selected: " + ref.String())
	return nil
}

// setupSystemPrompt reads a system prompt, which may contain ->mcp
// lookups. An empty prompt is allowed; a failed lookup ends setup.
func (h *Host) setupSystemPrompt(ctx context.Context) error {
	h.display.Info("Please enter system prompt (you can insert MCP resources by typing ->mcp anywhere):")
	line, err := h.reader.ReadLine(ctx, "System: ", "")
	if err != nil {
		return err
	}

	prompt, err := h.pipeline.Run(ctx, line, PipelineOptions{EditPrompt: "System: "})
	if err != nil {
		if leftWhileEditing(ctx, err) {
			return err
		}
		slog.Error("system prompt processing failed", "error", err)
		return fmt.Errorf("%w: %w", ErrSystemPrompt, err)
	}

	h.inference.SetSystemPrompt(prompt)
	if strings.TrimSpace(prompt) != "" {
		slog.Info("system prompt set", "length", len(prompt))
	}
	return nil
}

// loadHistory lets the user pick a saved conversation. Any problem sends
// the user back to the mode menu.
func (h *Host) loadHistory(ctx context.Context) error {
	list, err := h.inference.ListSavedHistories()
	if err != nil {
		slog.Error("list histories failed", "error", err)
		h.display.Error(err.Error())
		return errBackToMenu
	}
	if len(list) == 0 {
		h.display.Warn("no saved conversations")
		return errBackToMenu
	}

	h.display.Title("Saved conversations:")
	labels := make([]string, len(list))
	for i, s := range list {
		title := s.Title
		if title == "" {
			title = s.ID
		}
		labels[i] = fmt.Sprintf("%s (%d messages, %s)", title, s.MessageCount, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
	idx, ok, err := terminal.Select(ctx, h.display, h.reader, "Please select conversation history to load", labels, "")
	if err != nil {
		return err
	}
	if !ok {
		return errBackToMenu
	}

	handle := list[idx].ID
	if err := h.inference.LoadHistory(handle); err != nil {
		slog.Error("load history failed", "handle", handle, "error", err)
		h.display.Error(err.Error())
		return errBackToMenu
	}
	h.state.HistoryHandle = handle
	h.display.Info("Loaded conversation " + handle)
	return nil
}
