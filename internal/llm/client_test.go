package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dohr-michael/mcphost/internal/models"
	"github.com/dohr-michael/mcphost/internal/sessions"
)

type fakeModel struct {
	chunks []*schema.Message
	err    error
	inputs [][]*schema.Message
}

func (m *fakeModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.inputs = append(m.inputs, input)
	return schema.AssistantMessage("unused", nil), nil
}

func (m *fakeModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	sr, sw := schema.Pipe[*schema.Message](len(m.chunks))
	for _, c := range m.chunks {
		sw.Send(c, nil)
	}
	sw.Close()
	return sr, nil
}

func (m *fakeModel) WithTools(_ []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

type fakeSource struct {
	refs  []models.ModelRef
	model *fakeModel
}

func (s *fakeSource) List() []models.ModelRef { return s.refs }

func (s *fakeSource) Get(_ context.Context, ref models.ModelRef) (model.ToolCallingChatModel, error) {
	for _, r := range s.refs {
		if r == ref {
			return s.model, nil
		}
	}
	return nil, errors.New("model provider not found")
}

var testRef = models.ModelRef{Kind: "chat", Provider: "test", Name: "echo"}

func newTestClient(t *testing.T, fm *fakeModel) (*Client, *sessions.FileStore) {
	t.Helper()
	store := sessions.NewFileStore(t.TempDir())
	c := New(&fakeSource{refs: []models.ModelRef{testRef}, model: fm}, store)
	if err := c.SetModel(context.Background(), testRef); err != nil {
		t.Fatalf("SetModel: %v", err)
	}
	return c, store
}

func TestChatWithoutModel(t *testing.T) {
	c := New(&fakeSource{}, sessions.NewFileStore(t.TempDir()))
	if _, _, err := c.Chat(context.Background(), "hi"); !errors.Is(err, ErrNoModel) {
		t.Fatalf("Chat = %v, want ErrNoModel", err)
	}
}

func TestSetModelUnknown(t *testing.T) {
	c := New(&fakeSource{}, sessions.NewFileStore(t.TempDir()))
	if err := c.SetModel(context.Background(), testRef); err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestChatAccumulatesStream(t *testing.T) {
	fm := &fakeModel{chunks: []*schema.Message{
		{Role: schema.Assistant, ReasoningContent: "think "},
		{Role: schema.Assistant, ReasoningContent: "hard"},
		{Role: schema.Assistant, Content: "Hello, "},
		{Role: schema.Assistant, Content: "world"},
	}}
	c, _ := newTestClient(t, fm)
	c.SetSystemPrompt("  be brief  ")

	reasoning, answer, err := c.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reasoning != "think hard" {
		t.Errorf("reasoning = %q, want %q", reasoning, "think hard")
	}
	if answer != "Hello, world" {
		t.Errorf("answer = %q, want %q", answer, "Hello, world")
	}

	sent := fm.inputs[0]
	if len(sent) != 2 || sent[0].Role != schema.System || sent[0].Content != "be brief" {
		t.Fatalf("first request = %+v", sent)
	}
	if sent[1].Content != "hi" {
		t.Errorf("user message = %q, want %q", sent[1].Content, "hi")
	}

	msgs := c.history
	if len(msgs) != 2 || msgs[1].Content != "Hello, world" || msgs[1].ReasoningContent != "think hard" {
		t.Errorf("history = %+v", msgs)
	}
}

func TestChatErrorLeavesHistory(t *testing.T) {
	fm := &fakeModel{err: errors.New("429 Too Many Requests")}
	c, _ := newTestClient(t, fm)

	_, _, err := c.Chat(context.Background(), "hi")
	if err == nil || !strings.HasPrefix(err.Error(), "rate limited") {
		t.Fatalf("Chat = %v, want rate limited", err)
	}
	if len(c.history) != 0 {
		t.Errorf("history should stay empty, got %d", len(c.history))
	}
}

func TestClearHistoryKeepsSystemPrompt(t *testing.T) {
	fm := &fakeModel{chunks: []*schema.Message{{Role: schema.Assistant, Content: "ok"}}}
	c, _ := newTestClient(t, fm)
	c.SetSystemPrompt("sys")

	if _, _, err := c.Chat(context.Background(), "one"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	c.ClearHistory()
	if len(c.history) != 0 {
		t.Errorf("history not cleared")
	}
	if c.systemPrompt != "sys" {
		t.Errorf("SystemPrompt = %q, want %q", c.systemPrompt, "sys")
	}
}

func TestSaveLoadHistory(t *testing.T) {
	fm := &fakeModel{chunks: []*schema.Message{{Role: schema.Assistant, Content: "pong"}}}
	c, store := newTestClient(t, fm)
	c.SetSystemPrompt("sys")

	if _, _, err := c.Chat(context.Background(), "ping"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	handle, err := c.SaveHistory("")
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	meta, err := store.Get(handle)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if meta.Title != "ping" || meta.MessageCount != 2 || meta.Model != testRef.String() {
		t.Errorf("meta = %+v", meta)
	}

	if _, _, err := c.Chat(context.Background(), "again"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	again, err := c.SaveHistory(handle)
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	if again != handle {
		t.Errorf("second save handle = %q, want %q", again, handle)
	}

	list, err := c.ListSavedHistories()
	if err != nil {
		t.Fatalf("ListSavedHistories: %v", err)
	}
	if len(list) != 1 || list[0].MessageCount != 4 {
		t.Fatalf("list = %+v", list)
	}

	fresh := New(&fakeSource{}, store)
	if err := fresh.LoadHistory(handle); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(fresh.history) != 4 {
		t.Errorf("loaded %d messages, want 4", len(fresh.history))
	}
	if fresh.systemPrompt != "sys" {
		t.Errorf("SystemPrompt = %q, want %q", fresh.systemPrompt, "sys")
	}

	path, err := c.ExportHistory(handle)
	if err != nil {
		t.Fatalf("ExportHistory: %v", err)
	}
	if path != store.ExportPath(handle) {
		t.Errorf("export path = %q", path)
	}
}

func TestSaveHistoryUnknownHandleCreatesNew(t *testing.T) {
	c, _ := newTestClient(t, &fakeModel{})

	handle, err := c.SaveHistory("hist_gone")
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	if handle == "hist_gone" || handle == "" {
		t.Errorf("handle = %q, want a new one", handle)
	}
}

func TestLoadHistoryMissing(t *testing.T) {
	c := New(&fakeSource{}, sessions.NewFileStore(t.TempDir()))
	if err := c.LoadHistory("hist_missing"); err == nil {
		t.Fatal("expected error")
	}
}

func TestTokenUsageFollowsHistory(t *testing.T) {
	c, store := newTestClient(t, &fakeModel{})
	c.usage.Add(12, 3)

	handle, err := c.SaveHistory("")
	if err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	meta, err := store.Get(handle)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if meta.TokenUsage != (sessions.TokenUsage{Input: 12, Output: 3}) {
		t.Errorf("saved usage = %+v", meta.TokenUsage)
	}

	fresh := New(&fakeSource{}, store)
	if err := fresh.LoadHistory(handle); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if got := fresh.Usage(); got != (sessions.TokenUsage{Input: 12, Output: 3}) {
		t.Errorf("loaded usage = %+v", got)
	}

	fresh.ClearHistory()
	if got := fresh.Usage(); got != (sessions.TokenUsage{}) {
		t.Errorf("usage after clear = %+v", got)
	}
}
