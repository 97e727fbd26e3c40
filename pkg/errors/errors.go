// Package errors defines the typed errors envtool returns. Callers branch
// on them with errors.Is and errors.As: a local source failure aborts a
// run, while remote and write failures are reported per target.
package errors

import (
	"errors"
	"fmt"
)

// New is errors.New, re-exported so callers need one import.
var New = errors.New

// Sentinels matched by the typed errors' Is methods.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrLocalSourceUnreadable = errors.New("local source unreadable")
	ErrRemoteUnavailable     = errors.New("remote unavailable")
	ErrPartialWrite          = errors.New("partial write failure")
	ErrTimeout               = errors.New("operation timed out")
	ErrDependencyMissing     = errors.New("dependency missing")
)

// NotFoundError names a missing resource, such as a key or an env file.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string        { return e.Resource + " " + e.ID + " not found" }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports bad user input. Field is optional.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return "validation failed for field " + e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ConfigError reports an unusable envtool.yaml or an empty target set.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return "configuration error in " + e.Component + ": " + e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DependencyError reports a target CLI that is not installed.
type DependencyError struct {
	Dependency string
	Message    string
}

func (e *DependencyError) Error() string        { return "dependency " + e.Dependency + ": " + e.Message }
func (e *DependencyError) Is(target error) bool { return target == ErrDependencyMissing }

// ParseError reports malformed dotenv, JSON or YAML input.
type ParseError struct {
	Format  string
	File    string
	Line    int
	Message string
	Err     error
}

func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	case e.File != "":
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return e.Format + " parse error: " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a failed filesystem operation ("read", "write", "remove").
type IOError struct {
	Operation string
	Path      string
	Message   string
	Err       error
}

func NewIOError(operation, path string, err error) *IOError {
	e := &IOError{Operation: operation, Path: path, Err: err}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
}

func (e *IOError) Unwrap() error { return e.Err }

// TimeoutError reports a command that hit the transport deadline.
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration, Message: message}
}

func (e *TimeoutError) Error() string {
	if e.Duration == "" {
		return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// ProcessError reports a target CLI that exited non-zero. Output holds
// its stderr, or stdout when stderr was empty.
type ProcessError struct {
	Operation string
	Command   string
	Output    string
	ExitCode  int
	Err       error
}

func NewProcessError(operation, command, output string, exitCode int, err error) *ProcessError {
	return &ProcessError{Operation: operation, Command: command, Output: output, ExitCode: exitCode, Err: err}
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("process error during %s (command: %s, exit %d)", e.Operation, e.Command, e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += "\nOutput: " + e.Output
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }
func IsTimeout(err error) bool         { return errors.Is(err, ErrTimeout) }

// WrapValidation turns err into a ValidationError on field. Nil stays nil.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO turns err into an IOError. Nil stays nil.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse turns err into a ParseError. Nil stays nil.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
