package host

import (
	"context"
	"log/slog"

	"github.com/dohr-michael/mcphost/internal/terminal"
)

const defaultEditPrompt = "You: "

// Stages reported by ProcessingError.
const (
	stageSelect  = "select"
	stageEdit    = "edit"
	stageResolve = "resolve"
)

// PipelineOptions tunes one pipeline run.
type PipelineOptions struct {
	// EditPrompt is shown when the user revises the text after a lookup.
	EditPrompt string
}

// Pipeline expands ->mcp markers through the resolver, letting the user
// edit the text after each lookup, then resolves placeholders once.
type Pipeline struct {
	resolver Resolver
	reader   terminal.Reader
	display  *terminal.Display
}

// NewPipeline creates a Pipeline. resolver may be nil.
func NewPipeline(resolver Resolver, reader terminal.Reader, display *terminal.Display) *Pipeline {
	return &Pipeline{resolver: resolver, reader: reader, display: display}
}

// Run resolves input. Rounds run strictly one after another. On error the
// whole input is dropped and nothing partial is returned.
func (p *Pipeline) Run(ctx context.Context, input string, opts PipelineOptions) (string, error) {
	if opts.EditPrompt == "" {
		opts.EditPrompt = defaultEditPrompt
	}

	buf := input
	for {
		m, found := FindMarker(buf)
		if !found {
			break
		}
		if p.resolver == nil {
			return "", ErrResolverUnavailable
		}

		prefix, suffix := buf[:m.Start], buf[m.End:]
		replacement, ok, err := p.resolver.InteractiveSelect(ctx)
		if err != nil {
			return "", &ProcessingError{Stage: stageSelect, Err: err}
		}
		if !ok {
			buf = dropMarker(prefix, suffix)
			slog.Debug("mcp lookup declined")
			break
		}

		p.display.Info("Please continue editing your message, press Enter to send when finished")
		edited, err := p.reader.ReadLine(ctx, opts.EditPrompt, prefix+replacement+suffix)
		if err != nil {
			return "", &ProcessingError{Stage: stageEdit, Err: err}
		}
		buf = edited
	}

	if p.resolver == nil {
		return buf, nil
	}
	out, err := p.resolver.ResolvePlaceholders(ctx, buf)
	if err != nil {
		return "", &ProcessingError{Stage: stageResolve, Err: err}
	}
	return out, nil
}
