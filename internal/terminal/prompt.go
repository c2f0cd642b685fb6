package terminal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Ask reads a line and returns def when the answer is blank.
func Ask(ctx context.Context, r Reader, prompt, def string) (string, error) {
	base := strings.TrimRight(prompt, ": ")
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", base, def)
	} else {
		prompt = base + ": "
	}
	line, err := r.ReadLine(ctx, prompt, "")
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// ParseIndex converts a 1-based answer into a 0-based index below n.
func ParseIndex(answer string, n int) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

// Select prints options as a numbered list and reads a 1-based choice.
// It reports false when the answer is not a valid index.
func Select(ctx context.Context, d *Display, r Reader, prompt string, options []string, def string) (int, bool, error) {
	d.Numbered(options)
	answer, err := Ask(ctx, r, prompt, def)
	if err != nil {
		return 0, false, err
	}
	idx, ok := ParseIndex(answer, len(options))
	return idx, ok, nil
}
