package host

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestConfirmAnswers(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts...)

	tests := []struct {
		answer string
		want   bool
	}{
		{"n", false},
		{"N", false},
		{"  n  ", false},
		{"", true},
		{"y", true},
		{"Y", true},
		{"no", true},
		{"whatever", true},
	}
	for _, tt := range tests {
		r := &fakeReader{steps: lines(tt.answer)}
		if got := Confirm(context.Background(), r, "Save? ", time.Second, false); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.answer, got, tt.want)
		}
		if r.prompts[0] != "Save? " {
			t.Errorf("prompt = %q", r.prompts[0])
		}
	}
}

func TestConfirmReadErrorMeansYes(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts...)

	for _, err := range []error{io.EOF, ErrInterrupted, errors.New("broken terminal")} {
		r := &fakeReader{steps: []step{{err: err}}}
		if !Confirm(context.Background(), r, "Save? ", time.Second, false) {
			t.Errorf("Confirm with read error %v = false, want true", err)
		}
	}
}

func TestConfirmReaderPanicMeansYes(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts...)

	r := &fakeReader{steps: []step{{panic: true}}}
	if !Confirm(context.Background(), r, "Save? ", time.Second, false) {
		t.Error("Confirm with panicking reader = false, want true")
	}
}

func TestConfirmTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts...)

	const timeout = 80 * time.Millisecond
	for _, def := range []bool{true, false} {
		r := &fakeReader{block: true}
		start := time.Now()
		got := Confirm(context.Background(), r, "Save? ", timeout, def)
		elapsed := time.Since(start)

		if got != def {
			t.Errorf("Confirm timeout with default %v = %v", def, got)
		}
		if elapsed < timeout {
			t.Errorf("Confirm returned after %s, before the %s timeout", elapsed, timeout)
		}
		if n := r.cancelled.Load(); n != 1 {
			t.Errorf("reader cancelled %d times before Confirm returned, want 1", n)
		}
	}
}

func TestConfirmParentCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, leakOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	r := &fakeReader{block: true}
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	if !Confirm(ctx, r, "Save? ", 10*time.Second, false) {
		t.Error("Confirm with cancelled parent = false, want true")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Confirm waited %s after cancellation", elapsed)
	}
	if n := r.cancelled.Load(); n != 1 {
		t.Errorf("reader cancelled %d times, want 1", n)
	}
}
