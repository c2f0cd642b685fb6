package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const defaultWidth = 100

// Display writes styled output for the interactive host.
type Display struct {
	out   io.Writer
	tty   bool
	width int
	theme theme

	mdOnce sync.Once
	md     *glamour.TermRenderer
}

// NewDisplay creates a Display writing to out. Colors and Markdown styling
// are enabled only when out is a terminal.
func NewDisplay(out io.Writer) *Display {
	d := &Display{out: out, width: defaultWidth}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		d.tty = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 20 {
			d.width = w - 2
		}
	}
	d.theme = newTheme(lipgloss.NewRenderer(out))
	return d
}

// Println writes its arguments followed by a newline.
func (d *Display) Println(a ...any) {
	fmt.Fprintln(d.out, a...)
}

// Printf writes formatted text.
func (d *Display) Printf(format string, a ...any) {
	fmt.Fprintf(d.out, format, a...)
}

func (d *Display) Info(msg string) {
	fmt.Fprintln(d.out, d.theme.tool.Render(msg))
}

func (d *Display) Warn(msg string) {
	fmt.Fprintln(d.out, d.theme.warn.Render("Warning: "+msg))
}

func (d *Display) Error(msg string) {
	fmt.Fprintln(d.out, d.theme.err.Render("Error: "+msg))
}

func (d *Display) Muted(msg string) {
	fmt.Fprintln(d.out, d.theme.muted.Render(msg))
}

func (d *Display) Title(msg string) {
	fmt.Fprintln(d.out, d.theme.title.Render(msg))
}

// Clear wipes the screen on a terminal and does nothing otherwise.
func (d *Display) Clear() {
	if d.tty {
		fmt.Fprint(d.out, "\033[H\033[2J")
	}
}

// Header prints the application banner.
func (d *Display) Header(name, version string) {
	fmt.Fprintln(d.out, d.theme.banner.Render(fmt.Sprintf("%s %s", name, version)))
}

// Numbered prints items as a 1-based list.
func (d *Display) Numbered(items []string) {
	for i, item := range items {
		fmt.Fprintf(d.out, "  %d. %s\n", i+1, item)
	}
}

// UserLabel renders the prompt label for user input.
func (d *Display) UserLabel(label string) string {
	return d.theme.user.Render(label)
}

// Reasoning prints model reasoning dimmed.
func (d *Display) Reasoning(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	fmt.Fprintln(d.out, d.theme.muted.Render("Thinking:"))
	fmt.Fprintln(d.out, d.theme.muted.Render(text))
}

// Assistant prints a labelled answer rendered as Markdown.
func (d *Display) Assistant(text string) {
	fmt.Fprintln(d.out, d.theme.assistant.Render("Assistant:"))
	fmt.Fprintln(d.out, d.Markdown(text))
}

// Markdown renders content for the terminal. It returns content unchanged
// when rendering fails.
func (d *Display) Markdown(content string) string {
	if content == "" {
		return ""
	}
	d.mdOnce.Do(func() {
		style := "notty"
		if d.tty {
			style = "dark"
		}
		d.md, _ = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(d.width),
			glamour.WithEmoji(),
		)
	})
	if d.md == nil {
		return content
	}
	rendered, err := d.md.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}
