package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisplayPlainOutput(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out)

	d.Error("boom")
	d.Warn("careful")
	d.Info("note")
	d.Clear()

	got := out.String()
	for _, want := range []string{"Error: boom\n", "Warning: careful\n", "note\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
	if strings.Contains(got, "\033[") {
		t.Errorf("non-terminal output has escape codes: %q", got)
	}
}

func TestDisplayReasoningSkipsBlank(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out)

	d.Reasoning("   ")
	if out.Len() != 0 {
		t.Errorf("blank reasoning printed %q", out.String())
	}

	d.Reasoning("step one")
	if !strings.Contains(out.String(), "Thinking:") || !strings.Contains(out.String(), "step one") {
		t.Errorf("reasoning output = %q", out.String())
	}
}

func TestDisplayMarkdown(t *testing.T) {
	d := NewDisplay(&bytes.Buffer{})

	if got := d.Markdown(""); got != "" {
		t.Errorf("Markdown(\"\") = %q", got)
	}
	got := d.Markdown("Some **bold** text")
	if !strings.Contains(got, "bold") {
		t.Errorf("Markdown lost content: %q", got)
	}
}
