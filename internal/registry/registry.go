// Package registry maps tool names to handlers and their input schemas.
//
// Tools are registered once at server startup, before any request is
// dispatched. After that init phase the registry is treated as read-only, so
// concurrent lookups from handler goroutines are safe without locking.
package registry

import (
	"context"
	"fmt"
)

// Arguments is the validated argument map passed to a tool handler. Values
// have already been checked against the tool's schema, so the typed getters
// here do not re-validate.
type Arguments map[string]any

// String returns the named string argument, or "" if absent.
func (a Arguments) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Bool returns the named boolean argument, or def if absent.
func (a Arguments) Bool(name string, def bool) bool {
	if v, ok := a[name].(bool); ok {
		return v
	}
	return def
}

// Int returns the named integer argument, or def if absent. JSON decoding
// delivers numbers as float64; both forms are accepted.
func (a Arguments) Int(name string, def int64) int64 {
	switch v := a[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return def
}

// Handler is the executable logic behind a tool. It receives validated
// arguments and returns the textual payload for the client, or an error that
// the dispatcher converts into a structured failure.
type Handler func(ctx context.Context, args Arguments) (string, error)

// Descriptor describes one registered tool: its unique name, the schema its
// arguments must satisfy, and the handler to invoke. Descriptors are
// immutable once registered.
type Descriptor struct {
	Name        string
	Description string
	Schema      Schema
	Handler     Handler
}

// Registry holds tool descriptors in registration order.
type Registry struct {
	byName map[string]Descriptor
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// Register adds a descriptor. A second registration under an existing name
// fails rather than silently overwriting; the first descriptor stays
// resolvable. Registration errors are programming defects and should be
// treated as fatal at startup.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if d.Handler == nil {
		return fmt.Errorf("tool %q has no handler", d.Name)
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("tool already registered: %s", d.Name)
	}

	r.byName[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// All returns every descriptor in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
