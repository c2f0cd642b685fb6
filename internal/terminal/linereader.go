package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// LineReader reads lines from a non-interactive stream such as a pipe.
// A single pump goroutine owns the underlying reader so that an abandoned
// ReadLine never leaves a blocked read behind it.
type LineReader struct {
	in    io.Reader
	out   io.Writer
	lines chan lineResult
	stop  chan struct{}
	start sync.Once
	close sync.Once
}

// NewLineReader creates a LineReader. The pump starts on the first ReadLine.
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	return &LineReader{
		in:    in,
		out:   out,
		lines: make(chan lineResult),
		stop:  make(chan struct{}),
	}
}

func (r *LineReader) pump() {
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case r.lines <- lineResult{line: strings.TrimRight(scanner.Text(), "\r")}:
		case <-r.stop:
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	for {
		select {
		case r.lines <- lineResult{err: err}:
		case <-r.stop:
			return
		}
	}
}

// ReadLine prints prompt and waits for the next line. An empty line keeps initial.
func (r *LineReader) ReadLine(ctx context.Context, prompt, initial string) (string, error) {
	r.start.Do(func() { go r.pump() })

	if initial != "" {
		fmt.Fprintf(r.out, "%s\n  [%s]\n", prompt, initial)
	} else {
		fmt.Fprint(r.out, prompt)
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(r.out)
		return "", fmt.Errorf("read line: %w", ctx.Err())
	case <-r.stop:
		return "", io.EOF
	case res := <-r.lines:
		if res.err != nil {
			return "", res.err
		}
		if res.line == "" && initial != "" {
			return initial, nil
		}
		return res.line, nil
	}
}

// Close stops the pump. Pending and later reads return io.EOF.
func (r *LineReader) Close() error {
	r.close.Do(func() { close(r.stop) })
	return nil
}
