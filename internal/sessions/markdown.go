package sessions

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown formats a history as a Markdown transcript.
func RenderMarkdown(s *Session, msgs []Message) string {
	var b strings.Builder

	title := s.Title
	if title == "" {
		title = s.ID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- ID: `%s`\n", s.ID)
	if s.Model != "" {
		fmt.Fprintf(&b, "- Model: %s\n", s.Model)
	}
	fmt.Fprintf(&b, "- Created: %s\n", s.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Updated: %s\n", s.UpdatedAt.Format(time.RFC3339))
	if u := s.TokenUsage; u.Input > 0 || u.Output > 0 {
		fmt.Fprintf(&b, "- Tokens: %d in / %d out\n", u.Input, u.Output)
	}

	if s.SystemPrompt != "" {
		b.WriteString("\n## System\n\n")
		b.WriteString(strings.TrimSpace(s.SystemPrompt))
		b.WriteString("\n")
	}

	for _, m := range msgs {
		fmt.Fprintf(&b, "\n## %s\n\n", roleHeading(m.Role))
		if m.Reasoning != "" {
			for _, line := range strings.Split(strings.TrimSpace(m.Reasoning), "\n") {
				b.WriteString("> ")
				b.WriteString(line)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(m.Content))
		b.WriteString("\n")
	}

	return b.String()
}

func roleHeading(role string) string {
	switch role {
	case "user":
		return "You"
	case "assistant":
		return "Assistant"
	case "system":
		return "System"
	case "":
		return "Unknown"
	default:
		return strings.ToUpper(role[:1]) + role[1:]
	}
}

// TitleFrom derives a short history title from the first user message.
func TitleFrom(msgs []Message) string {
	const maxLen = 60
	for _, m := range msgs {
		if m.Role != "user" {
			continue
		}
		title := strings.Join(strings.Fields(m.Content), " ")
		if r := []rune(title); len(r) > maxLen {
			title = string(r[:maxLen]) + "..."
		}
		return title
	}
	return ""
}
