package session

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes command failures.
type ErrorCode string

const (
	// CodeInvalidCommand indicates a command missing or misusing a field.
	CodeInvalidCommand ErrorCode = "INVALID_COMMAND"

	// CodeUnknownOp indicates an op the session does not implement.
	CodeUnknownOp ErrorCode = "UNKNOWN_OP"

	// CodeNothingToUndo indicates undo with an empty undo stack.
	CodeNothingToUndo ErrorCode = "NOTHING_TO_UNDO"

	// CodeNothingToRedo indicates redo with an empty redo stack.
	CodeNothingToRedo ErrorCode = "NOTHING_TO_REDO"

	// CodeEditFailed indicates the design rejected the command. The underlying
	// vhelix error is wrapped.
	CodeEditFailed ErrorCode = "EDIT_FAILED"
)

// CommandError is the error returned by Execute.
type CommandError struct {
	Code    ErrorCode
	Message string
	Seq     int64
	Op      Op
	Err     error
}

func (e *CommandError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (seq=%d, op=%s)", e.Code, e.Message, e.Seq, e.Op)
	}
	return fmt.Sprintf("%s: %s (seq=%d)", e.Code, e.Message, e.Seq)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is a CommandError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

func invalid(format string, args ...any) *CommandError {
	return &CommandError{Code: CodeInvalidCommand, Message: fmt.Sprintf(format, args...)}
}
