package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	perr "datalens/internal/platform/errors"
)

// Exit codes for CLI commands
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // a draft or statement was rejected
	ExitCommandError = 2 // bad flags, unreadable files, unreachable backend
)

// ExitError carries the process exit code for an error
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

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates an ExitError with the given code and message
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code, ExitFailure when err is not an ExitError
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response is the JSON output of every command
type Response struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError mirrors the API error envelope
type CLIError struct {
	Code    perr.ErrorCode `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
}

// OutputFormatter handles JSON vs text output
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics, kept off Writer so JSON stays parseable
	Verbose   bool
}

func newFormatter(opts *RootOptions, w, errW io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w, ErrWriter: errW, Verbose: opts.Verbose}
}

// Success writes data; text mode prints text instead when it is set
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Fail writes err in the configured format and returns it with an exit code
func (f *OutputFormatter) Fail(code int, err error) error {
	w := perr.WireFrom(err)
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error:  &CLIError{Code: w.Code, Message: w.Message, Field: w.Field},
		})
	} else {
		msg := w.Message
		if w.Field != "" {
			msg = w.Field + ": " + msg
		}
		_, _ = fmt.Fprintf(f.Writer, "Error [%s]: %s\n", http.StatusText(perr.HTTPStatusCode(w.Code)), msg)
	}
	return WrapExitError(code, w.Message, err)
}

// VerboseLog writes to ErrWriter only in verbose mode
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
