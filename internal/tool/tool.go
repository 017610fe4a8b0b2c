// Package tool defines the engine's named operations: live chain reads and
// transaction payload construction. The registry is assembled once at
// startup and never mutated afterwards; lookups fail closed.
package tool

import (
	"context"
	"fmt"
	"sort"
)

// Caller identifies who is invoking a tool. Address may be empty when the
// session has no connected wallet.
type Caller struct {
	Address string
}

// Property describes one parameter in a tool's schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema declares a tool's parameters.
type Schema struct {
	Required   []string            `json:"required,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// Tool is a named operation the engine can invoke.
type Tool interface {
	// Name returns the tool's unique identifier.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Schema returns the declared parameter schema.
	Schema() Schema

	// NewParams returns a pointer to this tool's zero parameter struct.
	// The executor decodes raw arguments into it before dispatch.
	NewParams() any

	// Execute runs the tool. params is the struct NewParams returned,
	// already decoded and checked against the schema's required list.
	Execute(ctx context.Context, params any, caller Caller) (any, error)
}

// UnknownToolError is returned for lookups of unregistered tool names.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// Registry is the immutable tool catalogue.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a registry from the given tools. Duplicate names panic;
// that is a programming error, not a runtime condition.
func NewRegistry(tools ...Tool) *Registry {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		if _, dup := m[t.Name()]; dup {
			panic("duplicate tool name: " + t.Name())
		}
		m[t.Name()] = t
	}
	return &Registry{tools: m}
}

// Get returns the tool registered under name. Unknown names are an error,
// never silently ignored.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return t, nil
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Definition is a serializable tool description.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      Schema `json:"parameterSchema"`
}

// Definitions returns descriptions for all registered tools, sorted by name.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.tools))
	for _, name := range r.Names() {
		t := r.tools[name]
		defs = append(defs, Definition{
			Name:        t.Name(),
			Description: t.Description(),
			Schema:      t.Schema(),
		})
	}
	return defs
}
