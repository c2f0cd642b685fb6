package terminal

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const maxHistoryEntries = 1000

// History is the persistent list of previously entered lines.
type History struct {
	mu      sync.Mutex
	path    string
	entries []string
	file    *os.File
}

// OpenHistory loads the history file at path, creating it if needed.
// An empty path gives an in-memory history.
func OpenHistory(path string) (*History, error) {
	h := &History{path: path}
	if path == "" {
		return h, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				h.entries = append(h.entries, line)
			}
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read history: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if len(h.entries) > maxHistoryEntries {
		h.entries = h.entries[len(h.entries)-maxHistoryEntries:]
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open history for append: %w", err)
	}
	h.file = f
	return h, nil
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []string {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Add records a line. Blank lines and repeats of the last entry are skipped.
// Multi-line input is stored on one line.
func (h *History) Add(line string) error {
	if h == nil {
		return nil
	}
	line = strings.ReplaceAll(strings.TrimSpace(line), "\n", " ")
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return nil
	}
	h.entries = append(h.entries, line)
	if h.file == nil {
		return nil
	}
	if _, err := h.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Close releases the history file.
func (h *History) Close() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}
