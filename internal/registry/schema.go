package registry

import (
	"filemcp/internal/fault"

	"github.com/mark3labs/mcp-go/mcp"
)

// FieldType enumerates the argument types tools declare.
type FieldType string

const (
	StringField  FieldType = "string"
	BooleanField FieldType = "boolean"
	IntegerField FieldType = "integer"
)

// Field declares one argument of a tool's input schema.
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Description string
}

// Schema is the structural description of a tool's expected arguments.
type Schema struct {
	Fields []Field
}

// Validate checks args against the schema: required fields must be present,
// every value must match its declared type, and arguments not declared in
// the schema are rejected. Validation is pure; it never touches the
// filesystem.
func (s Schema) Validate(args map[string]any) error {
	declared := make(map[string]Field, len(s.Fields))
	for _, f := range s.Fields {
		declared[f.Name] = f
	}

	for name := range args {
		if _, ok := declared[name]; !ok {
			return fault.New(fault.Validation, "unexpected argument: %s", name)
		}
	}

	for _, f := range s.Fields {
		v, present := args[f.Name]
		if !present {
			if f.Required {
				return fault.New(fault.Validation, "missing required argument: %s", f.Name)
			}
			continue
		}
		if !f.accepts(v) {
			return fault.New(fault.Validation, "argument %s must be a %s", f.Name, f.Type)
		}
	}

	return nil
}

func (f Field) accepts(v any) bool {
	switch f.Type {
	case StringField:
		_, ok := v.(string)
		return ok
	case BooleanField:
		_, ok := v.(bool)
		return ok
	case IntegerField:
		// JSON numbers decode as float64; accept integral values only
		switch n := v.(type) {
		case int, int64:
			return true
		case float64:
			return n == float64(int64(n))
		}
		return false
	}
	return false
}

// MCPTool projects the descriptor into the mcp-go tool declaration published
// to clients for introspection and autocomplete.
func (d Descriptor) MCPTool() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(d.Description)}

	for _, f := range d.Schema.Fields {
		var fieldOpts []mcp.PropertyOption
		if f.Required {
			fieldOpts = append(fieldOpts, mcp.Required())
		}
		if f.Description != "" {
			fieldOpts = append(fieldOpts, mcp.Description(f.Description))
		}

		switch f.Type {
		case StringField:
			opts = append(opts, mcp.WithString(f.Name, fieldOpts...))
		case BooleanField:
			opts = append(opts, mcp.WithBoolean(f.Name, fieldOpts...))
		case IntegerField:
			opts = append(opts, mcp.WithNumber(f.Name, fieldOpts...))
		}
	}

	return mcp.NewTool(d.Name, opts...)
}
