package host

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/mcphost/internal/models"
	"github.com/dohr-michael/mcphost/internal/sessions"
	"github.com/dohr-michael/mcphost/internal/terminal"
)

type step struct {
	line  string
	err   error
	panic bool
}

func lines(ls ...string) []step {
	steps := make([]step, len(ls))
	for i, l := range ls {
		steps[i] = step{line: l}
	}
	return steps
}

// fakeReader replays steps. Once they run out it blocks until ctx is done
// when block is set, and returns io.EOF otherwise.
type fakeReader struct {
	mu       sync.Mutex
	steps    []step
	prompts  []string
	initials []string
	block    bool

	cancelled atomic.Int32
	closed    atomic.Int32
}

func (r *fakeReader) ReadLine(ctx context.Context, prompt, initial string) (string, error) {
	r.mu.Lock()
	r.prompts = append(r.prompts, prompt)
	r.initials = append(r.initials, initial)
	if len(r.steps) > 0 {
		s := r.steps[0]
		r.steps = r.steps[1:]
		r.mu.Unlock()
		if s.panic {
			panic("reader exploded")
		}
		return s.line, s.err
	}
	r.mu.Unlock()

	if !r.block {
		return "", io.EOF
	}
	<-ctx.Done()
	r.cancelled.Add(1)
	return "", ctx.Err()
}

func (r *fakeReader) Close() error {
	r.closed.Add(1)
	return nil
}

func (r *fakeReader) remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps)
}

type fakeInference struct {
	refs        []models.ModelRef
	setModelErr error
	selected    *models.ModelRef

	chats    []string
	chatErrs []error
	panicOn  string

	systemPrompt string
	cleared      int

	saves     []string
	saveErr   error
	exports   []string
	histories []*sessions.Session
	loaded    string
	closeErr  error
	closed    int
}

func (f *fakeInference) Chat(_ context.Context, message string) (string, string, error) {
	if f.panicOn != "" && message == f.panicOn {
		panic("inference exploded")
	}
	f.chats = append(f.chats, message)
	if len(f.chatErrs) > 0 {
		err := f.chatErrs[0]
		f.chatErrs = f.chatErrs[1:]
		if err != nil {
			return "", "", err
		}
	}
	return "thinking about " + message, "answer to " + message, nil
}

func (f *fakeInference) ListModels() []models.ModelRef { return f.refs }

func (f *fakeInference) SetModel(_ context.Context, ref models.ModelRef) error {
	if f.setModelErr != nil {
		return f.setModelErr
	}
	f.selected = &ref
	return nil
}

func (f *fakeInference) SetSystemPrompt(prompt string) { f.systemPrompt = prompt }

func (f *fakeInference) ClearHistory() { f.cleared++ }

func (f *fakeInference) SaveHistory(handle string) (string, error) {
	f.saves = append(f.saves, handle)
	if f.saveErr != nil {
		return "", f.saveErr
	}
	if handle == "" {
		handle = "hist_new"
	}
	return handle, nil
}

func (f *fakeInference) ExportHistory(handle string) (string, error) {
	f.exports = append(f.exports, handle)
	return "/tmp/" + handle + ".md", nil
}

func (f *fakeInference) LoadHistory(handle string) error {
	f.loaded = handle
	return nil
}

func (f *fakeInference) ListSavedHistories() ([]*sessions.Session, error) {
	return f.histories, nil
}

func (f *fakeInference) Close() error {
	f.closed++
	return f.closeErr
}

type selectResult struct {
	text string
	ok   bool
	err  error
}

type fakeResolver struct {
	selects     []selectResult
	selectCalls int
	resolved    []string
	resolveErr  error
	transform   func(string) string
	clients     []ToolClient
	cleanups    int
	cleanupErr  error
}

func (f *fakeResolver) InteractiveSelect(_ context.Context) (string, bool, error) {
	f.selectCalls++
	if len(f.selects) == 0 {
		return "", false, nil
	}
	s := f.selects[0]
	f.selects = f.selects[1:]
	return s.text, s.ok, s.err
}

func (f *fakeResolver) ResolvePlaceholders(_ context.Context, text string) (string, error) {
	f.resolved = append(f.resolved, text)
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	if f.transform != nil {
		return f.transform(text), nil
	}
	return text, nil
}

func (f *fakeResolver) ListClients() []string {
	names := make([]string, len(f.clients))
	for i, c := range f.clients {
		names[i] = c.Name()
	}
	return names
}

func (f *fakeResolver) SelectClient(_ context.Context) (ToolClient, error) {
	if len(f.clients) == 0 {
		return nil, nil
	}
	c := f.clients[0]
	f.clients = f.clients[1:]
	return c, nil
}

func (f *fakeResolver) CleanupAll() error {
	f.cleanups++
	return f.cleanupErr
}

type fakeToolClient struct {
	tools   []*mcp.Tool
	runErrs []error
	runs    int
}

func (c *fakeToolClient) Name() string { return "fake" }

func (c *fakeToolClient) ListTools(_ context.Context) ([]*mcp.Tool, error) {
	return c.tools, nil
}

func (c *fakeToolClient) SelectAndRunTool(_ context.Context, _ []*mcp.Tool) (string, error) {
	c.runs++
	if len(c.runErrs) > 0 {
		err := c.runErrs[0]
		c.runErrs = c.runErrs[1:]
		if err != nil {
			return "", err
		}
	}
	return "tool output", nil
}

type fakeCloser struct {
	err    error
	panic  bool
	closed int
}

func (c *fakeCloser) Close() error {
	c.closed++
	if c.panic {
		panic("closer exploded")
	}
	return c.err
}

var twoModels = []models.ModelRef{
	{Kind: "chat", Provider: "openai", Name: "gpt-4o"},
	{Kind: "reasoning", Provider: "deepseek", Name: "deepseek-reasoner"},
}

type harness struct {
	host      *Host
	reader    *fakeReader
	inference *fakeInference
	resolver  *fakeResolver
	out       *strings.Builder
}

func newHarness(steps []step, resolver *fakeResolver) *harness {
	h := &harness{
		reader:    &fakeReader{steps: steps},
		inference: &fakeInference{refs: twoModels},
		resolver:  resolver,
		out:       &strings.Builder{},
	}
	cfg := Config{
		Version:     "test",
		Inference:   h.inference,
		Reader:      h.reader,
		Display:     terminal.NewDisplay(h.out),
		SaveTimeout: 50 * time.Millisecond,
		Closers:     []io.Closer{h.reader},
	}
	if resolver != nil {
		cfg.Resolver = resolver
	}
	h.host = New(cfg)
	return h
}

var errBoom = errors.New("boom")
