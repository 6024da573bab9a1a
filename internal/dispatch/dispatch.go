// Package dispatch routes decoded tool-invocation requests through
// validation and into the registered handler.
//
// A request moves through a fixed pipeline: received, validated against the
// tool's input schema, executed, completed. Any failure along the way is
// converted into a structured Result carrying a stable error kind - handler
// errors never escape the dispatcher, and no request reaches a handler
// without passing validation first.
package dispatch

import (
	"context"

	"filemcp/internal/fault"
	"filemcp/internal/logging"
	"filemcp/internal/registry"

	"github.com/google/uuid"
)

// Request is a decoded tool invocation: the tool name plus its raw argument
// map as supplied by the transport layer.
type Request struct {
	Tool string
	Args map[string]any
}

// Result is the outcome of one dispatch. Exactly one of Payload (on
// success) or ErrKind/ErrMessage (on failure) is meaningful.
type Result struct {
	OK         bool
	Payload    string
	ErrKind    fault.Kind
	ErrMessage string
}

// Dispatcher validates and executes tool requests against a registry.
type Dispatcher struct {
	reg    *registry.Registry
	logger *logging.AppLogger
}

// New creates a Dispatcher. The registry must be fully populated; no tools
// are registered after dispatching begins.
func New(reg *registry.Registry, logger *logging.AppLogger) *Dispatcher {
	return &Dispatcher{reg: reg, logger: logger}
}

// Dispatch runs one request to completion. Lookup failures, validation
// failures, and handler errors all produce a failed Result; only a
// programming defect can panic out of here.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	requestID := uuid.NewString()
	d.logger.Debug("Tool call received", "id", requestID, "tool", req.Tool)

	desc, ok := d.reg.Lookup(req.Tool)
	if !ok {
		d.logger.Debug("Unknown tool requested", "id", requestID, "tool", req.Tool)
		return failure(fault.New(fault.UnknownTool, "unknown tool: %s", req.Tool))
	}

	args := req.Args
	if args == nil {
		args = map[string]any{}
	}
	if err := desc.Schema.Validate(args); err != nil {
		d.logger.Debug("Argument validation failed", "id", requestID, "tool", req.Tool, "error", err)
		return failure(err)
	}

	payload, err := desc.Handler(WithRequestID(ctx, requestID), registry.Arguments(args))
	if err != nil {
		d.logger.Debug("Tool handler failed", "id", requestID, "tool", req.Tool, "error", err)
		return failure(err)
	}

	d.logger.Debug("Tool call completed", "id", requestID, "tool", req.Tool)
	return Result{OK: true, Payload: payload}
}

func failure(err error) Result {
	return Result{
		OK:         false,
		ErrKind:    fault.KindOf(err),
		ErrMessage: fault.MessageOf(err),
	}
}

type ctxKey struct{}

// WithRequestID stores the dispatch request ID in ctx for log and commit
// correlation downstream.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFromContext returns the request ID set by the dispatcher, or ""
// when called outside a dispatch.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
