package tools

import (
	"fmt"

	"coursechat/internal/llm"
)

// Registry holds the available tools keyed by declared name and dispatches
// calls from the model. Registration problems are programmer errors and fail
// at setup; dispatch problems surface as text or an error value, never a
// panic.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Tool)}
}

// Register adds a tool. Unnamed and duplicate tools are rejected.
func (r *Registry) Register(tool Tool) error {
	name := tool.Definition().Name
	if name == "" {
		return fmt.Errorf("tool must declare a name in its definition")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.byName[name] = tool
	r.tools = append(r.tools, tool)
	return nil
}

// Definitions returns every registered tool schema in registration order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Definition())
	}
	return defs
}

// Dispatch executes the named tool. An unknown name yields a "not found"
// text result; a tool execution failure is returned as an error for the
// caller to fold back into model context.
func (r *Registry) Dispatch(name string, args map[string]any) (string, error) {
	tool, ok := r.byName[name]
	if !ok {
		return fmt.Sprintf("Tool '%s' not found", name), nil
	}
	return tool.Execute(args)
}

// LastSources returns the provenance labels recorded by the most recent tool
// execution that produced any.
func (r *Registry) LastSources() []string {
	for _, t := range r.tools {
		if st, ok := t.(sourceTracker); ok && len(st.LastSources()) > 0 {
			return st.LastSources()
		}
	}
	return nil
}

// LastSourceLinks returns the links paired with LastSources.
func (r *Registry) LastSourceLinks() []string {
	for _, t := range r.tools {
		if st, ok := t.(sourceTracker); ok && len(st.LastSourceLinks()) > 0 {
			return st.LastSourceLinks()
		}
	}
	return nil
}

// ResetSources clears provenance on every tracking tool so it cannot leak
// into the next query.
func (r *Registry) ResetSources() {
	for _, t := range r.tools {
		if st, ok := t.(sourceTracker); ok {
			st.ResetSources()
		}
	}
}
