// Package callbacks provides Eino callback handlers for chat model calls.
package callbacks

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	ub "github.com/cloudwego/eino/utils/callbacks"
)

// Usage accumulates token consumption across model calls. It is safe for
// concurrent use; stream handlers update it from their own goroutine.
type Usage struct {
	mu     sync.Mutex
	input  int
	output int
}

// Add records one call's token counts.
func (u *Usage) Add(input, output int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.input += input
	u.output += output
}

// Totals returns the accumulated input and output tokens.
func (u *Usage) Totals() (input, output int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.input, u.output
}

// Reset sets the totals to the given values.
func (u *Usage) Reset(input, output int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.input, u.output = input, output
}

// NewUsageHandler creates a handler that logs chat model calls and adds
// their token usage to usage.
func NewUsageHandler(usage *Usage) callbacks.Handler {
	return ub.NewHandlerHelper().
		ChatModel(newModelHandler(usage)).
		Handler()
}

func newModelHandler(usage *Usage) *ub.ModelCallbackHandler {
	return &ub.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *callbacks.RunInfo, input *model.CallbackInput) context.Context {
			slog.Debug("llm request", "model", info.Name, "provider", info.Type, "messages", len(input.Messages))
			return ctx
		},

		OnEnd: func(ctx context.Context, info *callbacks.RunInfo, output *model.CallbackOutput) context.Context {
			in, out, _ := tokenUsage(output)
			usage.Add(in, out)
			slog.Debug("llm response", "model", info.Name, "tokens_input", in, "tokens_output", out)
			return ctx
		},

		OnEndWithStreamOutput: func(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[*model.CallbackOutput]) context.Context {
			go func() {
				defer output.Close()
				var in, out int
				for {
					frame, err := output.Recv()
					if err == io.EOF {
						break
					}
					if err != nil {
						slog.Debug("llm stream ended with error", "model", info.Name, "error", err)
						break
					}
					// Providers report cumulative counts, often only on the last frame.
					if fi, fo, ok := tokenUsage(frame); ok {
						in, out = max(in, fi), max(out, fo)
					}
				}
				usage.Add(in, out)
				slog.Debug("llm stream response", "model", info.Name, "tokens_input", in, "tokens_output", out)
			}()
			return ctx
		},

		OnError: func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			slog.Warn("llm call failed", "model", info.Name, "provider", info.Type, "error", err)
			return ctx
		},
	}
}

func tokenUsage(output *model.CallbackOutput) (input, out int, ok bool) {
	if output == nil {
		return 0, 0, false
	}
	if u := output.TokenUsage; u != nil {
		return u.PromptTokens, u.CompletionTokens, true
	}
	if m := output.Message; m != nil && m.ResponseMeta != nil && m.ResponseMeta.Usage != nil {
		return m.ResponseMeta.Usage.PromptTokens, m.ResponseMeta.Usage.CompletionTokens, true
	}
	return 0, 0, false
}
