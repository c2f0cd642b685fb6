package host

import "fmt"

// Mode is the session mode chosen at startup.
type Mode int

const (
	ModeUnset Mode = iota
	ModeChat
	ModeTool
)

func (m Mode) String() string {
	switch m {
	case ModeChat:
		return "chat"
	case ModeTool:
		return "tool"
	default:
		return "unset"
	}
}

// Language selects the language of the host's own messages.
type Language int

const (
	LangEnglish Language = iota
	LangChinese
)

func (l Language) String() string {
	if l == LangChinese {
		return "Chinese"
	}
	return "English"
}

// State is the mutable state of one run.
type State struct {
	Mode          Mode
	HistoryHandle string
	Language      Language
}

// SetMode records the chosen mode. The mode can be set once per run.
func (s *State) SetMode(m Mode) error {
	if s.Mode != ModeUnset && s.Mode != m {
		return fmt.Errorf("mode already set to %s, cannot switch to %s", s.Mode, m)
	}
	s.Mode = m
	return nil
}
