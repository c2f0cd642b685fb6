// Package terminal provides line input and styled output for the interactive host.
package terminal

import (
	"context"
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrInterrupted is returned by a Reader when the user presses Ctrl+C.
var ErrInterrupted = errors.New("interrupted")

// Reader reads one line of user input at a time.
//
// ReadLine shows prompt and pre-fills the line with initial. It returns
// io.EOF at end of input, ErrInterrupted on Ctrl+C, and an error wrapping
// ctx.Err() when ctx is cancelled while waiting.
type Reader interface {
	ReadLine(ctx context.Context, prompt, initial string) (string, error)
	Close() error
}

// NewReader returns a TeaReader when both ends are terminals and a LineReader otherwise.
func NewReader(in *os.File, out *os.File, history *History) Reader {
	if term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd())) {
		return NewTeaReader(in, out, history)
	}
	return NewLineReader(in, out)
}

// IsInterrupt reports whether err means the user wants to leave.
func IsInterrupt(err error) bool {
	return errors.Is(err, ErrInterrupted) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled)
}
