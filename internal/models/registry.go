package models

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/mcphost/internal/config"
)

// kindOrder ranks the well-known model kinds; unknown kinds sort after them.
var kindOrder = map[string]int{
	config.KindChat:      0,
	config.KindReasoning: 1,
	config.KindVision:    2,
}

// ModelRef identifies one selectable model.
type ModelRef struct {
	Kind     string
	Provider string
	Name     string
}

func (r ModelRef) String() string {
	return strings.ToUpper(r.Kind) + " - " + r.Provider + " - " + r.Name
}

type modelEntry struct {
	model model.ToolCallingChatModel
	once  sync.Once
	err   error
}

// Registry lists the configured models and creates them lazily.
type Registry struct {
	mu          sync.Mutex
	providers   map[string]config.ProviderConfig
	refs        []ModelRef
	entries     map[ModelRef]*modelEntry
	defaultName string
}

// NewRegistry creates a model registry from config.
func NewRegistry(cfg config.LLMConfig) *Registry {
	r := &Registry{
		providers:   make(map[string]config.ProviderConfig, len(cfg.Providers)),
		entries:     make(map[ModelRef]*modelEntry),
		defaultName: cfg.Default,
	}
	for name, p := range cfg.Providers {
		r.providers[name] = p
	}
	r.refs = buildRefs(r.providers, cfg.Default)
	return r
}

// buildRefs orders models by provider (default provider first, then by
// name), then by kind, then in configured order.
func buildRefs(providers map[string]config.ProviderConfig, defaultName string) []ModelRef {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if (names[i] == defaultName) != (names[j] == defaultName) {
			return names[i] == defaultName
		}
		return names[i] < names[j]
	})

	var refs []ModelRef
	for _, provider := range names {
		kinds := make([]string, 0, len(providers[provider].Models))
		for kind := range providers[provider].Models {
			kinds = append(kinds, kind)
		}
		sort.Slice(kinds, func(i, j int) bool {
			ri, iKnown := kindOrder[kinds[i]]
			rj, jKnown := kindOrder[kinds[j]]
			switch {
			case iKnown && jKnown:
				return ri < rj
			case iKnown != jKnown:
				return iKnown
			default:
				return kinds[i] < kinds[j]
			}
		})
		for _, kind := range kinds {
			for _, name := range providers[provider].Models[kind] {
				refs = append(refs, ModelRef{Kind: kind, Provider: provider, Name: name})
			}
		}
	}
	return refs
}

// List returns every configured model in display order.
func (r *Registry) List() []ModelRef {
	out := make([]ModelRef, len(r.refs))
	copy(out, r.refs)
	return out
}

// Get returns the referenced model, initializing it lazily.
func (r *Registry) Get(ctx context.Context, ref ModelRef) (model.ToolCallingChatModel, error) {
	r.mu.Lock()
	provCfg, ok := r.providers[ref.Provider]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("model provider %q not found", ref.Provider)
	}
	entry, ok := r.entries[ref]
	if !ok {
		entry = &modelEntry{}
		r.entries[ref] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		entry.model, entry.err = CreateModel(ctx, provCfg, ref.Name)
	})
	if entry.err != nil {
		return nil, entry.err
	}
	return entry.model, nil
}

// DefaultName returns the name of the default provider.
func (r *Registry) DefaultName() string {
	return r.defaultName
}
