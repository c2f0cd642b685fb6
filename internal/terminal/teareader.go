package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TeaReader reads lines through a short-lived bubbletea program per line,
// giving line editing and Up/Down history recall.
type TeaReader struct {
	in      io.Reader
	out     io.Writer
	history *History
}

// NewTeaReader creates a TeaReader. history may be nil.
func NewTeaReader(in io.Reader, out io.Writer, history *History) *TeaReader {
	return &TeaReader{in: in, out: out, history: history}
}

// ReadLine runs one input program. Cancelling ctx kills the program and
// restores the terminal.
func (r *TeaReader) ReadLine(ctx context.Context, prompt, initial string) (string, error) {
	m := newLineModel(prompt, initial, r.history.Entries())

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(r.in),
		tea.WithOutput(r.out),
		tea.WithoutSignalHandler(),
	)
	final, err := p.Run()
	if err != nil {
		switch {
		case errors.Is(err, tea.ErrInterrupted):
			return "", ErrInterrupted
		case ctx.Err() != nil:
			return "", fmt.Errorf("read line: %w", ctx.Err())
		default:
			return "", fmt.Errorf("read line: %w", err)
		}
	}

	lm, ok := final.(lineModel)
	if !ok {
		return "", fmt.Errorf("read line: unexpected model %T", final)
	}
	if lm.err != nil {
		return "", lm.err
	}
	r.remember(lm.result)
	return lm.result, nil
}

// remember adds line to the input history. A failing history file must not
// cost the user the line they typed.
func (r *TeaReader) remember(line string) {
	if err := r.history.Add(line); err != nil {
		slog.Warn("input history not saved", "error", err)
	}
}

// Close is a no-op; programs are torn down after each line.
func (r *TeaReader) Close() error {
	return nil
}

// lineModel wraps a textinput with Enter-to-submit and history navigation.
type lineModel struct {
	input   textinput.Model
	history []string
	histIdx int
	draft   string
	result  string
	err     error
	done    bool
}

func newLineModel(prompt, initial string, history []string) lineModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.CharLimit = 0
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()

	return lineModel{
		input:   ti,
		history: history,
		histIdx: -1,
	}
}

func (m lineModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m lineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.result = m.input.Value()
			m.done = true
			return m, tea.Quit

		case tea.KeyCtrlC:
			m.err = ErrInterrupted
			m.done = true
			return m, tea.Quit

		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.err = io.EOF
				m.done = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if len(m.history) == 0 {
				break
			}
			if m.histIdx == -1 {
				m.draft = m.input.Value()
				m.histIdx = len(m.history) - 1
			} else if m.histIdx > 0 {
				m.histIdx--
			}
			m.input.SetValue(m.history[m.histIdx])
			m.input.CursorEnd()
			return m, nil

		case tea.KeyDown:
			if m.histIdx == -1 {
				break
			}
			if m.histIdx < len(m.history)-1 {
				m.histIdx++
				m.input.SetValue(m.history[m.histIdx])
			} else {
				m.histIdx = -1
				m.input.SetValue(m.draft)
			}
			m.input.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m lineModel) View() string {
	if m.done {
		return m.input.Prompt + m.input.Value() + "\n"
	}
	return m.input.View()
}
