// Package alerts prints the status lines commands emit alongside their
// primary output: sync summaries, target failures, skipped removals.
package alerts

import (
	"fmt"
)

// Alert is one status line with optional indented detail lines.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// New creates an alert.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// Newf creates an alert with a formatted message.
func Newf(level Level, format string, args ...any) *Alert {
	return New(level, fmt.Sprintf(format, args...))
}

func NewError(message string) *Alert   { return New(LevelError, message) }
func NewWarning(message string) *Alert { return New(LevelWarning, message) }
func NewInfo(message string) *Alert    { return New(LevelInfo, message) }
func NewSuccess(message string) *Alert { return New(LevelSuccess, message) }

// WithError attaches the cause; it is appended to the message when printed.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails appends detail lines.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String renders the headline without details.
func (a *Alert) String() string {
	if a.Err != nil {
		return fmt.Sprintf("%s %s: %v", a.Level.Icon(), a.Message, a.Err)
	}
	return a.Level.Icon() + " " + a.Message
}

// Writer receives alerts.
type Writer interface {
	WriteAlert(alert *Alert) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(*Alert) error

// WriteAlert implements Writer.
func (f WriterFunc) WriteAlert(alert *Alert) error {
	return f(alert)
}

// Quiet wraps w so only warnings and errors get through.
func Quiet(w Writer) Writer {
	return WriterFunc(func(alert *Alert) error {
		if alert.Level > LevelWarning {
			return nil
		}
		return w.WriteAlert(alert)
	})
}
