package host

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dohr-michael/mcphost/internal/terminal"
)

type confirmResult struct {
	line string
	err  error
}

// Confirm asks a yes/no question and waits at most timeout for the answer,
// returning def when the time runs out. "n" in any case means no; any other
// answer, a read error or a cancelled ctx means yes. The reader goroutine
// has always returned when Confirm does, so r must honour ctx.
func Confirm(ctx context.Context, r terminal.Reader, prompt string, timeout time.Duration, def bool) bool {
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	answer := make(chan confirmResult, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("confirmation reader panicked", "panic", rec)
				answer <- confirmResult{err: fmt.Errorf("reader panic: %v", rec)}
			}
		}()
		line, err := r.ReadLine(readCtx, prompt, "")
		answer <- confirmResult{line: line, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-answer:
		timer.Stop()
		<-done
		if res.err != nil {
			slog.Debug("confirmation read failed, assuming yes", "error", res.err)
			return true
		}
		return !strings.EqualFold(strings.TrimSpace(res.line), "n")
	case <-timer.C:
		cancel()
		<-done
		slog.Debug("confirmation timed out", "default", def)
		return def
	case <-ctx.Done():
		cancel()
		<-done
		return true
	}
}
