package host

import "strings"

// CommandKind identifies a slash command typed in the chat loop.
type CommandKind int

const (
	CommandExit CommandKind = iota
	CommandClear
	CommandSave
	CommandHelp
	CommandLang
)

// Command is a parsed slash command. Arg is only used by CommandLang.
type Command struct {
	Kind CommandKind
	Arg  string
}

// ParseCommand recognizes /exit, /quit, /clear, /save, /help and
// /lang [code]. The first four must be the whole line; anything starting
// with /lang is a language command. Anything else is not a command.
func ParseCommand(line string) (Command, bool) {
	line = strings.TrimSpace(line)
	switch line {
	case "/exit", "/quit":
		return Command{Kind: CommandExit}, true
	case "/clear":
		return Command{Kind: CommandClear}, true
	case "/save":
		return Command{Kind: CommandSave}, true
	case "/help":
		return Command{Kind: CommandHelp}, true
	}

	if !strings.HasPrefix(line, "/lang") {
		return Command{}, false
	}
	cmd := Command{Kind: CommandLang}
	if fields := strings.Fields(line); len(fields) > 1 {
		cmd.Arg = strings.ToLower(fields[1])
	}
	return cmd, true
}

// parseLanguage maps a /lang argument to a Language.
func parseLanguage(code string) (Language, bool) {
	switch strings.ToLower(code) {
	case "en", "english":
		return LangEnglish, true
	case "cn", "chinese":
		return LangChinese, true
	default:
		return LangEnglish, false
	}
}
