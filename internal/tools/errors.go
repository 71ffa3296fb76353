package tools

import (
	"errors"
)

// Failure taxonomy. Handlers return these (wrapped with context);
// Execute is the single boundary that converts them into the uniform
// tool error.
var (
	ErrUnknownTool        = errors.New("unknown tool")
	ErrNotFound           = errors.New("meeting not found")
	ErrNoTranscript       = errors.New("meeting has no transcript")
	ErrUnknownStatType    = errors.New("unknown statistics type")
	ErrUnknownPatternType = errors.New("unknown pattern type")
)

// Error is the uniform failure type surfaced by Execute. It carries a
// human-readable message and unwraps to the causing taxonomy error.
type Error struct {
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// asToolError wraps any handler failure into the uniform tool error.
func asToolError(err error) *Error {
	var toolErr *Error
	if errors.As(err, &toolErr) {
		return toolErr
	}
	return &Error{Message: err.Error(), cause: err}
}
