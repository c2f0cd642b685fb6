package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/dohr-michael/mcphost/internal/terminal"
)

// exitReason tells finish how the chat loop ended.
type exitReason int

const (
	// exitInterrupted covers Ctrl+C, end of input and a cancelled context.
	exitInterrupted exitReason = iota
	// exitRequested is the user typing exit or quit.
	exitRequested
	// exitSaved is /exit or /quit, which save before leaving.
	exitSaved
)

// chatLoop reads, resolves and sends lines until the user leaves.
func (h *Host) chatLoop(ctx context.Context) exitReason {
	for {
		if ctx.Err() != nil {
			return exitInterrupted
		}
		if reason, done := h.iterate(ctx); done {
			slog.Info("chat loop ended", "reason", reason)
			return reason
		}
	}
}

// iterate handles one line. Errors and panics are reported and the loop
// goes on.
func (h *Host) iterate(ctx context.Context) (reason exitReason, done bool) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := debug.Stack()
			slog.Error("chat iteration panicked", "panic", rec, "stack", string(stack))
			h.display.Error(fmt.Sprintf("An error occurred: %v", rec))
			h.display.Muted(string(stack))
			reason, done = exitInterrupted, false
		}
	}()

	h.display.Muted(h.text().tip)

	var line string
	for {
		l, err := h.reader.ReadLine(ctx, h.display.UserLabel("You: "), "")
		if err != nil {
			if !terminal.IsInterrupt(err) && ctx.Err() == nil {
				h.reportError(err)
			}
			return exitInterrupted, true
		}
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}

	trimmed := strings.TrimSpace(line)
	if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
		return exitRequested, true
	}
	if cmd, ok := ParseCommand(trimmed); ok {
		if h.handleCommand(cmd) {
			return exitSaved, true
		}
		return exitInterrupted, false
	}

	text, err := h.pipeline.Run(ctx, line, PipelineOptions{EditPrompt: h.display.UserLabel("You: ")})
	if err != nil {
		if leftWhileEditing(ctx, err) {
			return exitInterrupted, true
		}
		h.reportError(err)
		return exitInterrupted, false
	}

	slog.Info("input message", "text", text)
	reasoning, response, err := h.inference.Chat(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return exitInterrupted, true
		}
		h.reportError(err)
		return exitInterrupted, false
	}
	slog.Info("reasoning result", "text", reasoning)
	slog.Info("response result", "text", response)

	h.display.Reasoning(reasoning)
	h.display.Assistant(response)
	return exitInterrupted, false
}

// handleCommand runs a slash command and reports whether the loop should end.
func (h *Host) handleCommand(cmd Command) bool {
	switch cmd.Kind {
	case CommandExit:
		_ = h.saveHistory()
		return true
	case CommandClear:
		h.inference.ClearHistory()
		h.display.Info(h.text().cleared)
	case CommandSave:
		_ = h.saveHistory()
	case CommandHelp:
		h.display.Println(h.text().help)
	case CommandLang:
		if cmd.Arg == "" {
			h.display.Info(fmt.Sprintf(h.text().langCurrent, h.state.Language))
			break
		}
		lang, ok := parseLanguage(cmd.Arg)
		if !ok {
			h.display.Warn(fmt.Sprintf(h.text().langUnknown, cmd.Arg))
			break
		}
		h.state.Language = lang
		h.display.Info(fmt.Sprintf(h.text().langSet, lang))
	}
	return false
}

// reportError shows err followed by every error it wraps.
func (h *Host) reportError(err error) {
	chain := errorChain(err)
	slog.Error("chat iteration failed", "error", err, "chain", chain)
	h.display.Error(err.Error())
	if len(chain) > 1 {
		h.display.Muted(strings.Join(chain[1:], "\n"))
	}
}

// errorChain describes err and the errors it wraps, outermost first.
func errorChain(err error) []string {
	var chain []string
	for depth := 0; err != nil; depth++ {
		prefix := ""
		if depth > 0 {
			prefix = "caused by "
		}
		chain = append(chain, fmt.Sprintf("%s%T: %v", prefix, err, err))
		err = errors.Unwrap(err)
	}
	return chain
}

// leftWhileEditing reports whether a pipeline error means the user left:
// the context is gone or the edit prompt was interrupted. Resolver errors
// only drop the line, whatever they wrap.
func leftWhileEditing(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	var pe *ProcessingError
	return errors.As(err, &pe) && pe.Stage == stageEdit && terminal.IsInterrupt(pe.Err)
}
