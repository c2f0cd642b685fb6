package terminal

import "github.com/charmbracelet/lipgloss"

// Adaptive colors (light/dark terminal detection).
var (
	ColorUser      = lipgloss.AdaptiveColor{Light: "#0070F3", Dark: "#79C0FF"}
	ColorAssistant = lipgloss.AdaptiveColor{Light: "#6B21A8", Dark: "#D8A6FF"}
	ColorTool      = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#7EE2B8"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF6B6B"}
	ColorWarn      = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
)

// theme holds styles bound to one output renderer.
type theme struct {
	user      lipgloss.Style
	assistant lipgloss.Style
	tool      lipgloss.Style
	err       lipgloss.Style
	warn      lipgloss.Style
	muted     lipgloss.Style
	title     lipgloss.Style
	banner    lipgloss.Style
}

func newTheme(r *lipgloss.Renderer) theme {
	return theme{
		user:      r.NewStyle().Foreground(ColorUser).Bold(true),
		assistant: r.NewStyle().Foreground(ColorAssistant).Bold(true),
		tool:      r.NewStyle().Foreground(ColorTool),
		err:       r.NewStyle().Foreground(ColorError).Bold(true),
		warn:      r.NewStyle().Foreground(ColorWarn),
		muted:     r.NewStyle().Foreground(ColorMuted),
		title:     r.NewStyle().Foreground(ColorAssistant).Bold(true).Underline(true),
		banner: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),
	}
}
