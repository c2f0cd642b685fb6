package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/mcphost/internal/terminal"
)

// schemaProperty is the part of a JSON Schema property used for prompting.
type schemaProperty struct {
	Type        any    `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default"`
	Enum        []any  `json:"enum"`
}

type objectSchema struct {
	Properties map[string]schemaProperty `json:"properties"`
	Required   []string                  `json:"required"`
}

// argField is one argument to ask the user for.
type argField struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     string
}

// toolFields lists a tool's arguments, required ones first, then by name.
func toolFields(tool *mcp.Tool) ([]argField, error) {
	if tool.InputSchema == nil {
		return nil, nil
	}
	data, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("read input schema of %s: %w", tool.Name, err)
	}
	var schema objectSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("read input schema of %s: %w", tool.Name, err)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	fields := make([]argField, 0, len(schema.Properties))
	for name, prop := range schema.Properties {
		f := argField{
			Name:        name,
			Type:        propertyType(prop.Type),
			Description: prop.Description,
			Required:    required[name],
		}
		if prop.Default != nil {
			f.Default = fmt.Sprint(prop.Default)
		}
		if len(prop.Enum) > 0 {
			opts := make([]string, len(prop.Enum))
			for i, e := range prop.Enum {
				opts[i] = fmt.Sprint(e)
			}
			f.Description = strings.TrimSpace(f.Description + " (one of: " + strings.Join(opts, ", ") + ")")
		}
		fields = append(fields, f)
	}
	sortFields(fields)
	return fields, nil
}

// propertyType reads "type", which may be a string or a list such as ["string","null"].
func propertyType(t any) string {
	switch v := t.(type) {
	case string:
		return v
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok && s != "null" {
				return s
			}
		}
	}
	return "string"
}

func promptFields(prompt *mcp.Prompt) []argField {
	fields := make([]argField, 0, len(prompt.Arguments))
	for _, a := range prompt.Arguments {
		if a == nil {
			continue
		}
		fields = append(fields, argField{
			Name:        a.Name,
			Type:        "string",
			Description: a.Description,
			Required:    a.Required,
		})
	}
	sortFields(fields)
	return fields
}

func sortFields(fields []argField) {
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Required != fields[j].Required {
			return fields[i].Required
		}
		return fields[i].Name < fields[j].Name
	})
}

// convertArg turns user input into the JSON value the schema type asks for.
func convertArg(f argField, raw string) (any, error) {
	switch f.Type {
	case "integer":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %q is not an integer", f.Name, raw)
		}
		return v, nil
	case "number":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %q is not a number", f.Name, raw)
		}
		return v, nil
	case "boolean":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %q is not a boolean", f.Name, raw)
		}
		return v, nil
	case "array", "object":
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("argument %s: invalid JSON: %w", f.Name, err)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// askArguments prompts for each field. Blank optional fields are left out;
// a blank required field is an error.
func askArguments(ctx context.Context, d *terminal.Display, r terminal.Reader, fields []argField) (map[string]any, error) {
	args := make(map[string]any, len(fields))
	for _, f := range fields {
		label := fmt.Sprintf("%s (%s", f.Name, f.Type)
		if f.Required {
			label += ", required"
		}
		label += ")"
		if f.Description != "" {
			d.Muted("  " + f.Description)
		}

		raw, err := terminal.Ask(ctx, r, label, f.Default)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			if f.Required {
				return nil, fmt.Errorf("argument %s is required", f.Name)
			}
			continue
		}
		v, err := convertArg(f, raw)
		if err != nil {
			return nil, err
		}
		args[f.Name] = v
	}
	return args, nil
}

func askToolArguments(ctx context.Context, d *terminal.Display, r terminal.Reader, tool *mcp.Tool) (map[string]any, error) {
	fields, err := toolFields(tool)
	if err != nil {
		return nil, err
	}
	return askArguments(ctx, d, r, fields)
}
