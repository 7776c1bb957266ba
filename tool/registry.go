package tool

import (
	"fmt"
	"sort"

	"github.com/bettersg/checkmate-agent/model"
)

// Registry is an immutable name -> Tool mapping constructed once at startup
// and shared read-only across agent runs. Construction fails closed: a
// duplicate or empty tool name is an error at build time, never a runtime
// surprise. After construction the registry is safe for concurrent use.
type Registry struct {
	tools map[string]Tool
	names []string // sorted, for deterministic catalogues
}

// NewRegistry builds a Registry from the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("registry: tool with empty name")
		}
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("registry: duplicate tool name %q", name)
		}
		r.tools[name] = t
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// MustNewRegistry is NewRegistry panicking on error; for startup wiring where
// a bad tool set is a programming error.
func MustNewRegistry(tools ...Tool) *Registry {
	r, err := NewRegistry(tools...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the sorted tool names.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Definitions returns the tool catalogue in deterministic (sorted) order for
// exposure to the model invocation service.
func (r *Registry) Definitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(r.names))
	for _, name := range r.names {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}
