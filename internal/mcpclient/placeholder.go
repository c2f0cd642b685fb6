package mcpclient

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Kind is the type of MCP item a placeholder refers to.
type Kind string

const (
	KindResource Kind = "resource"
	KindPrompt   Kind = "prompt"
	KindTool     Kind = "tool"
)

var placeholderRe = regexp.MustCompile(`\{\{mcp:([^:}]+):(resource|prompt|tool):([^}]*)\}\}`)

// Placeholder is a reference to an MCP item embedded in text as
// {{mcp:<server>:<kind>:<ref>}}. For prompts and tools, ref is the item
// name optionally followed by "?" and the base64url JSON arguments.
type Placeholder struct {
	Server string
	Kind   Kind
	Name   string
	Args   map[string]any
}

// String renders the placeholder in its textual form.
func (p Placeholder) String() string {
	ref := p.Name
	if p.Kind != KindResource && len(p.Args) > 0 {
		data, err := json.Marshal(p.Args)
		if err == nil {
			ref += "?" + base64.RawURLEncoding.EncodeToString(data)
		}
	}
	return fmt.Sprintf("{{mcp:%s:%s:%s}}", p.Server, p.Kind, ref)
}

func parsePlaceholder(server, kind, ref string) (Placeholder, error) {
	p := Placeholder{Server: server, Kind: Kind(kind), Name: ref}
	if p.Kind == KindResource {
		return p, nil
	}

	name, encoded, found := strings.Cut(ref, "?")
	p.Name = name
	if !found || encoded == "" {
		return p, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return p, fmt.Errorf("decode %s arguments for %s: %w", kind, name, err)
	}
	if err := json.Unmarshal(data, &p.Args); err != nil {
		return p, fmt.Errorf("decode %s arguments for %s: %w", kind, name, err)
	}
	return p, nil
}

// FindPlaceholders returns the placeholders in text in order of appearance.
func FindPlaceholders(text string) ([]Placeholder, error) {
	var out []Placeholder
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		p, err := parsePlaceholder(m[1], m[2], m[3])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// stringArgs converts prompt arguments, which MCP requires to be strings.
func stringArgs(args map[string]any) map[string]string {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]string, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}
