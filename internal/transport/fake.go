package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake is a scripted in-memory Runner for tests. Responses are matched by
// command-line prefix; the longest matching prefix wins.
type Fake struct {
	mu        sync.Mutex
	responses map[string]FakeResponse
	calls     []Command
}

// FakeResponse is the scripted outcome of a command.
type FakeResponse struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
	// Hook runs before the response is returned, with the matched command.
	Hook func(cmd Command)
}

// NewFake returns an empty Fake. Unscripted commands succeed with no output.
func NewFake() *Fake {
	return &Fake{responses: make(map[string]FakeResponse)}
}

// On scripts the response for commands whose line starts with prefix.
func (f *Fake) On(prefix string, resp FakeResponse) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[prefix] = resp
	return f
}

// Run implements Runner.
func (f *Fake) Run(_ context.Context, cmd Command) (*Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	line := cmd.Line()
	var (
		best  string
		resp  FakeResponse
		found bool
	)
	for prefix, r := range f.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) >= len(best) {
			best, resp, found = prefix, r, true
		}
	}
	f.mu.Unlock()

	if !found {
		return &Result{}, nil
	}
	if resp.Hook != nil {
		resp.Hook(cmd)
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Result{
		ExitCode: resp.ExitCode,
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
	}, nil
}

// Calls returns the recorded commands in call order.
func (f *Fake) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}

// Lines returns the recorded command lines, unredacted.
func (f *Fake) Lines() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Line()
	}
	return out
}

// CallsWithPrefix returns the recorded command lines starting with prefix.
func (f *Fake) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, line := range f.Lines() {
		if strings.HasPrefix(line, prefix) {
			out = append(out, line)
		}
	}
	return out
}

// String summarizes recorded calls, for assertion messages.
func (f *Fake) String() string {
	return fmt.Sprintf("%d call(s): %s", len(f.Calls()), strings.Join(f.Lines(), "; "))
}
