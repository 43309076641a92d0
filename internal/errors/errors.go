// Package errors provides sentinel errors and structured error types for apptemplate.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DetailError captures structured error information for display.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path the error refers to (optional).
	Location string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError reports a missing target file.
func NewNotFoundError(path string) error {
	return &DetailError{
		Type:     "not found",
		Message:  fmt.Sprintf("target file %s does not exist", path),
		Location: path,
		Cause:    ErrNotFound,
	}
}

// NewAlreadyExistsError reports a write collision with force disabled.
func NewAlreadyExistsError(path string) error {
	return &DetailError{
		Type:     "already exists",
		Message:  fmt.Sprintf("refusing to overwrite %s", path),
		Location: path,
		Hint:     "Set force: true on the file step to overwrite it.",
		Cause:    ErrAlreadyExists,
	}
}

// NewAnchorNotFoundError reports a required anchor missing from a file.
func NewAnchorNotFoundError(path, anchor string) error {
	return &DetailError{
		Type:     "anchor not found",
		Message:  fmt.Sprintf("anchor %q not found", anchor),
		Location: path,
		Cause:    ErrAnchorNotFound,
	}
}

// NewAnchorAmbiguousError reports a unique anchor that matched more than once.
func NewAnchorAmbiguousError(path, anchor string, matches int) error {
	return &DetailError{
		Type:     "anchor ambiguous",
		Message:  fmt.Sprintf("anchor %q matched %d times, expected exactly once", anchor, matches),
		Location: path,
		Cause:    ErrAnchorAmbiguous,
	}
}

// NewGroupNotFoundError reports a dependency group block that does not exist.
func NewGroupNotFoundError(path string, groups []string) error {
	return &DetailError{
		Type:     "group not found",
		Message:  fmt.Sprintf("no group block for %s", strings.Join(groups, ", ")),
		Location: path,
		Hint:     "Set create: true on the gem_group step to append a new group block.",
		Cause:    ErrGroupNotFound,
	}
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// UnresolvedPlaceholderError reports a template that referenced a value
// missing from the run context.
type UnresolvedPlaceholderError struct {
	// Template names the template being rendered.
	Template string

	// Err is the underlying text/template error.
	Err error
}

// Error implements the error interface.
func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("unresolved placeholder in %s: %v", e.Template, e.Err)
}

// Unwrap allows errors.Is to match ErrUnresolvedPlaceholder.
func (e *UnresolvedPlaceholderError) Unwrap() []error {
	return []error{ErrUnresolvedPlaceholder, e.Err}
}

// ExternalCommandFailedError reports a non-zero exit from an external program.
type ExternalCommandFailedError struct {
	Program  string
	Args     []string
	ExitCode int

	// Stderr is the captured standard error, kept for diagnostics.
	Stderr string
}

// Error implements the error interface.
func (e *ExternalCommandFailedError) Error() string {
	cmdline := strings.TrimSpace(e.Program + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("%s failed with exit code %d", cmdline, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Unwrap allows errors.Is to match ErrExternalCommand.
func (e *ExternalCommandFailedError) Unwrap() error {
	return ErrExternalCommand
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}

// Exit codes. A failed external command's own exit code is passed through.
const (
	// ExitSuccess indicates the run completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates any failure other than an external command.
	ExitGeneralError = 1
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed indicates the command layer already displayed the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the process exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cmdErr *ExternalCommandFailedError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}

	return ExitGeneralError
}
