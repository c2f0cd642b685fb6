// Package logging routes slog output to a dated file under the data
// directory so the terminal stays free for the conversation.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

var activePath atomic.Value // string

// Setup opens (or appends to) dir/mcphost-YYYYMMDD.log and installs a text
// handler on it as the default slog logger. The returned closer releases the
// file.
func Setup(dir string, debug bool) (string, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, fileName(time.Now()))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("open log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	activePath.Store(path)

	return path, f, nil
}

// FilePath returns the log file installed by Setup, or "" before Setup ran.
func FilePath() string {
	if p, ok := activePath.Load().(string); ok {
		return p
	}
	return ""
}

func fileName(t time.Time) string {
	return "mcphost-" + t.Format("20060102") + ".log"
}
