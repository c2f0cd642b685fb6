package host

// texts holds the host's own messages in one language.
type texts struct {
	tip         string
	help        string
	goodbye     string
	savePrompt  string
	cleared     string
	langCurrent string
	langSet     string
	langUnknown string
}

var catalog = map[Language]texts{
	LangEnglish: {
		tip:     "Tip: type ->mcp (with spaces around it) anywhere to insert an MCP resource, prompt or tool result. Press Ctrl+C to save the conversation and exit.",
		goodbye: "Goodbye!",
		help: `Available commands:
  /exit or /quit   save the conversation and exit
  /clear           clear the conversation
  /save            save the conversation
  /help            show this help
  /lang [en|cn]    show or set the language`,
		savePrompt:  "Save conversation? [Y/n] (Y after %ds): ",
		cleared:     "Chat history cleared",
		langCurrent: "Current language: %s",
		langSet:     "Switched to %s",
		langUnknown: "unknown language code %q, available: en, cn",
	},
	LangChinese: {
		tip:     "提示：在任意位置输入 ->mcp（前后需有空格）可插入 MCP 资源、提示词或工具结果。按 Ctrl+C 保存对话并退出。",
		goodbye: "再见！",
		help: `可用命令：
  /exit 或 /quit   保存对话并退出
  /clear           清空对话
  /save            保存对话
  /help            显示帮助
  /lang [en|cn]    查看或设置语言`,
		savePrompt:  "保存对话？[Y/n]（%d 秒后默认 Y）：",
		cleared:     "对话历史已清空",
		langCurrent: "当前语言：%s",
		langSet:     "已切换到 %s",
		langUnknown: "未知语言代码 %q，可选：en, cn",
	},
}

func (h *Host) text() texts {
	return catalog[h.state.Language]
}
