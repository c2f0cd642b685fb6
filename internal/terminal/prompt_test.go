package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestAsk(t *testing.T) {
	var out bytes.Buffer
	r := NewLineReader(strings.NewReader("\n  3 \n"), &out)
	defer r.Close()

	ctx := context.Background()
	got, err := Ask(ctx, r, "Choose", "2")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "2" {
		t.Errorf("Ask blank = %q, want default %q", got, "2")
	}
	if !strings.Contains(out.String(), "Choose [2]: ") {
		t.Errorf("prompt = %q", out.String())
	}

	got, err = Ask(ctx, r, "Choose", "2")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "3" {
		t.Errorf("Ask = %q, want %q", got, "3")
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want int
		ok   bool
	}{
		{"1", 2, 0, true},
		{" 2 ", 2, 1, true},
		{"0", 2, 0, false},
		{"3", 2, 0, false},
		{"abc", 2, 0, false},
		{"", 2, 0, false},
		{"1", 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseIndex(tt.in, tt.n)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseIndex(%q, %d) = %d, %v; want %d, %v", tt.in, tt.n, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSelect(t *testing.T) {
	var out bytes.Buffer
	d := NewDisplay(&out)
	r := NewLineReader(strings.NewReader("2\n"), &out)
	defer r.Close()

	idx, ok, err := Select(context.Background(), d, r, "Pick", []string{"alpha", "beta"}, "1")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if !ok || idx != 1 {
		t.Errorf("Select = %d, %v; want 1, true", idx, ok)
	}
	if !strings.Contains(out.String(), "  1. alpha\n  2. beta\n") {
		t.Errorf("options not listed: %q", out.String())
	}
}
