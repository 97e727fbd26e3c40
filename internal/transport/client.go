// Package transport runs external CLI processes for the remote adapters.
//
// Adapters build a Command and receive the exit code with captured output;
// they never touch os/exec directly, which lets tests substitute Fake.
package transport

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/logging"
)

// DefaultTimeout bounds a single process call.
const DefaultTimeout = 2 * time.Minute

// waitDelay bounds how long Run waits for output pipes after the process
// group was killed.
const waitDelay = time.Second

// Masked replaces redacted arguments in String.
const Masked = "***"

// Command is one process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Redact lists indexes into Args that String masks. Secret values
	// passed on the command line go here.
	Redact []int
}

// String renders the command line for logs and errors with redacted
// arguments masked. It is the only rendering errors and logs use.
func (c Command) String() string {
	if len(c.Redact) == 0 {
		return c.Line()
	}
	args := slices.Clone(c.Args)
	for _, i := range c.Redact {
		if i >= 0 && i < len(args) {
			args[i] = Masked
		}
	}
	return join(c.Name, args)
}

// Line renders the full command line, secrets included. Only Fake uses it.
func (c Command) Line() string {
	return join(c.Name, c.Args)
}

func join(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

// Result is the outcome of a process that started.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the process exited with code 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Output returns trimmed stderr, falling back to stdout.
func (r *Result) Output() string {
	if r == nil {
		return ""
	}
	if s := strings.TrimSpace(string(r.Stderr)); s != "" {
		return s
	}
	return strings.TrimSpace(string(r.Stdout))
}

// Runner executes commands. A non-zero exit is reported in Result, not as
// an error; err is reserved for processes that could not run at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, cmd Command) (*Result, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (*Result, error) {
	return f(ctx, cmd)
}

// Exec runs commands with os/exec.
type Exec struct {
	timeout time.Duration
}

// Option configures an Exec runner.
type Option func(*Exec)

// WithTimeout sets the per-call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Exec) {
		e.timeout = d
	}
}

// New creates an Exec runner.
func New(opts ...Option) *Exec {
	e := &Exec{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, c Command) (*Result, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	//nolint:gosec // command names come from tool configuration
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	killGroup(cmd)

	logging.FromContext(ctx).Debug().
		Str("command", c.String()).
		Str("dir", c.Dir).
		Msg("running command")

	err := cmd.Run()
	result := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return nil, errors.NewTimeoutError(c.String(), e.timeout.String(), ctx.Err().Error())
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return nil, errors.NewProcessError("start", c.String(), "", -1, err)
}

// Check converts a failed Result into a *errors.ProcessError.
func Check(operation string, cmd Command, res *Result, err error) error {
	if err != nil {
		return err
	}
	if res.Success() {
		return nil
	}
	return errors.NewProcessError(operation, cmd.String(), res.Output(), res.ExitCode, nil)
}
