// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols.
const (
	// Success marks a completed operation or an in-sync key.
	Success = "✓"

	// Error marks a failure or an out-of-sync key.
	Error = "✗"

	// Warning marks a non-fatal problem such as an unavailable target.
	Warning = "!"

	// Info marks general information.
	Info = "i"

	// Unknown marks a state that cannot be verified.
	Unknown = "?"
)

// Change symbols used when listing a sync plan.
const (
	// Added marks a key that will be created on a target.
	Added = "+"

	// Updated marks a key whose value will be overwritten.
	Updated = "~"

	// Removed marks a key that will be deleted from a target.
	Removed = "-"
)
