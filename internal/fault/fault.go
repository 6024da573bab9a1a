// Package fault defines the stable error kinds reported to MCP clients.
//
// Every failure that crosses the protocol boundary carries a Kind tag so
// clients can react to the category of failure without parsing messages.
// Errors created here wrap an optional underlying cause, so the usual
// errors.Is/errors.As chains keep working internally.
package fault

import (
	"errors"
	"fmt"
)

// Kind is a stable error category tag exposed in tool results.
type Kind string

const (
	// Validation covers malformed or missing tool arguments.
	Validation Kind = "ValidationError"
	// UnknownTool is returned when no registry entry matches the tool name.
	UnknownTool Kind = "UnknownToolError"
	// OutOfBounds is returned when a path escapes the workspace root.
	OutOfBounds Kind = "OutOfBoundsError"
	// NotFound is returned when a target path does not exist.
	NotFound Kind = "NotFoundError"
	// NotAFile is returned when a file operation targets a directory.
	NotAFile Kind = "NotAFileError"
	// AlreadyExists is returned when a write would clobber an existing file.
	AlreadyExists Kind = "AlreadyExistsError"
	// MissingParent is returned when a write target's parent directory is absent.
	MissingParent Kind = "MissingParentError"
	// IO covers filesystem errors not otherwise classified.
	IO Kind = "IOFailure"
)

// Error is a kinded error. Message is safe to show to clients; it never
// contains paths outside the workspace root.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kinded error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a kinded error that records err as its cause. The message
// shown to clients is the formatted one, not err's text.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from an error chain. Errors without a kinded
// entry are classified as IO, the catch-all for unexpected failures.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return IO
}

// MessageOf extracts the client-safe message from an error chain. For
// unkinded errors a generic message is returned so internal details never
// leak to the client.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "internal filesystem error"
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}
