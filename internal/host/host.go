// Package host runs the interactive session: mode setup, the chat loop with
// ->mcp lookups, and the save-and-cleanup sequence on exit.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/mcphost/internal/models"
	"github.com/dohr-michael/mcphost/internal/sessions"
	"github.com/dohr-michael/mcphost/internal/terminal"
)

const defaultSaveTimeout = 5 * time.Second

// Inference is the conversation with the language model.
type Inference interface {
	Chat(ctx context.Context, message string) (reasoning, response string, err error)
	ListModels() []models.ModelRef
	SetModel(ctx context.Context, ref models.ModelRef) error
	SetSystemPrompt(prompt string)
	ClearHistory()
	SaveHistory(handle string) (newHandle string, err error)
	ExportHistory(handle string) (path string, err error)
	LoadHistory(handle string) error
	ListSavedHistories() ([]*sessions.Session, error)
}

// Resolver looks up MCP resources, prompts and tools.
type Resolver interface {
	InteractiveSelect(ctx context.Context) (text string, ok bool, err error)
	ResolvePlaceholders(ctx context.Context, text string) (string, error)
	ListClients() []string
	SelectClient(ctx context.Context) (ToolClient, error)
	CleanupAll() error
}

// ToolClient is one MCP server used in tool mode.
type ToolClient interface {
	Name() string
	ListTools(ctx context.Context) ([]*mcp.Tool, error)
	SelectAndRunTool(ctx context.Context, tools []*mcp.Tool) (string, error)
}

// Config wires a Host.
type Config struct {
	Name    string
	Version string

	Inference Inference
	// Resolver may be nil when no MCP server could be set up.
	Resolver Resolver
	Reader   terminal.Reader
	Display  *terminal.Display

	// SystemPrompt is used when the user starts a conversation directly.
	SystemPrompt string
	// SaveTimeout bounds the save question on exit. Defaults to 5s.
	SaveTimeout time.Duration
	// Closers are released after the resolver and the inference client.
	Closers []io.Closer
}

// Host owns one interactive run.
type Host struct {
	name         string
	version      string
	inference    Inference
	resolver     Resolver
	reader       terminal.Reader
	display      *terminal.Display
	pipeline     *Pipeline
	systemPrompt string
	saveTimeout  time.Duration
	closers      []io.Closer

	state State

	cleanupOnce sync.Once
	cleanupErr  error
}

// New creates a Host from cfg.
func New(cfg Config) *Host {
	if cfg.Name == "" {
		cfg.Name = "mcphost"
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = defaultSaveTimeout
	}
	return &Host{
		name:         cfg.Name,
		version:      cfg.Version,
		inference:    cfg.Inference,
		resolver:     cfg.Resolver,
		reader:       cfg.Reader,
		display:      cfg.Display,
		pipeline:     NewPipeline(cfg.Resolver, cfg.Reader, cfg.Display),
		systemPrompt: cfg.SystemPrompt,
		saveTimeout:  cfg.SaveTimeout,
		closers:      cfg.Closers,
	}
}

// State returns a copy of the run state.
func (h *Host) State() State {
	return h.state
}

// Run sets up the mode and, in chat mode, runs the chat loop. Resources are
// released before Run returns; release failures are part of the returned
// error.
func (h *Host) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := h.cleanup(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	h.display.Clear()
	h.display.Header(h.name, h.version)

	mode, err := h.setupMode(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoModelsAvailable), errors.Is(err, ErrInvalidSelection), errors.Is(err, ErrSystemPrompt):
		slog.Warn("setup failed", "error", err)
		h.display.Error(err.Error())
		return nil
	case terminal.IsInterrupt(err):
		slog.Info("setup interrupted")
		h.display.Println(h.text().goodbye)
		return nil
	default:
		return fmt.Errorf("setup: %w", err)
	}

	if err := h.state.SetMode(mode); err != nil {
		return err
	}
	slog.Info("mode selected", "mode", mode)

	switch mode {
	case ModeChat:
		reason := h.chatLoop(ctx)
		h.finish(ctx, reason)
	case ModeTool:
		h.display.Println(h.text().goodbye)
	default:
		h.display.Muted("No mode selected.")
	}
	return nil
}

// finish runs when the chat loop ends: it offers to save the conversation
// unless that already happened.
func (h *Host) finish(ctx context.Context, reason exitReason) {
	ctx = context.WithoutCancel(ctx)

	if reason != exitSaved {
		prompt := fmt.Sprintf(h.text().savePrompt, int(h.saveTimeout.Seconds()))
		if Confirm(ctx, h.reader, prompt, h.saveTimeout, true) {
			_ = h.saveHistory()
		}
	}
	h.display.Println(h.text().goodbye)
}

// saveHistory saves the conversation and exports it as Markdown.
func (h *Host) saveHistory() error {
	handle, err := h.inference.SaveHistory(h.state.HistoryHandle)
	if err != nil {
		slog.Error("save history failed", "error", err)
		h.display.Error("Failed to save conversation history: " + err.Error())
		return err
	}
	h.state.HistoryHandle = handle

	path, err := h.inference.ExportHistory(handle)
	if err != nil {
		slog.Error("export history failed", "handle", handle, "error", err)
		h.display.Warn("conversation saved as " + handle + " but export failed: " + err.Error())
		return err
	}
	slog.Info("history saved", "handle", handle, "export", path)
	h.display.Info(fmt.Sprintf("Conversation saved as %s (%s)", handle, path))
	return nil
}

// cleanup releases the resolver, the inference client and the closers. It
// runs once; later calls return the first result.
func (h *Host) cleanup() error {
	h.cleanupOnce.Do(func() {
		var errs []error
		if h.resolver != nil {
			errs = append(errs, release("resolver", h.resolver.CleanupAll))
		}
		if c, ok := h.inference.(io.Closer); ok {
			errs = append(errs, release("inference", c.Close))
		}
		for i, c := range h.closers {
			errs = append(errs, release(fmt.Sprintf("closer %d", i), c.Close))
		}
		h.cleanupErr = errors.Join(errs...)
	})
	return h.cleanupErr
}

func release(name string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("release %s: panic: %v", name, rec)
		}
		if err != nil {
			slog.Error("cleanup failed", "resource", name, "error", err)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("release %s: %w", name, err)
	}
	return nil
}
