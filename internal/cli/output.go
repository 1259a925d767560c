package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // success
	ExitFailure      = 1 // scenario, assertion or replay failure
	ExitCommandError = 2 // bad arguments, unreadable files, broken journal
)

// Error codes reported in JSON responses.
const (
	CodeLoad        = "E_LOAD"
	CodeJournal     = "E_JOURNAL"
	CodeStep        = "E_STEP"
	CodeTestFailed  = "E_TEST_FAILED"
	CodeDeterminism = "E_DETERMINISM"
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from err. Errors that are not ExitErrors
// (cobra's own argument errors among them) map to ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// CLIResponse is the envelope of every JSON response.
type CLIResponse struct {
	Status  string    `json:"status"` // "ok" or "error"
	Data    any       `json:"data,omitempty"`
	Error   *CLIError `json:"error,omitempty"`
	Session string    `json:"session,omitempty"`
}

// CLIError is the error part of a JSON response.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter writes results as text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; defaults to Writer
	Verbose   bool
}

// JSON reports whether the formatter emits JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Respond writes resp as indented JSON.
func (f *OutputFormatter) Respond(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// Success writes data in the configured format. Text output prints data with
// fmt.Fprintln, so data should be a string or a Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.JSON() {
		return f.Respond(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error writes an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return f.Respond(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns it as an ExitError. In JSON mode the error
// envelope goes to Writer first; in text mode main prints the returned error.
func (f *OutputFormatter) Fail(exitCode int, code, message string, err error) error {
	if f.JSON() {
		if werr := f.Error(code, message, err.Error()); werr != nil {
			return werr
		}
	}
	return WrapExitError(exitCode, message, err)
}

// VerboseLog writes a diagnostic line when verbose is on. It goes to ErrWriter
// so it never corrupts JSON on Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
