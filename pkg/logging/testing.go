package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// Recorder is a JSON logger that keeps everything it writes. It is safe
// for the concurrent writes a watcher or a parallel fetch produces.
type Recorder struct {
	Logger zerolog.Logger

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewRecorder returns a trace-level Recorder. The global level is lowered
// for the duration of the test.
func NewRecorder(t testing.TB) *Recorder {
	t.Helper()
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	r := &Recorder{}
	r.Logger = zerolog.New(r).Level(zerolog.TraceLevel)
	return r
}

// Write implements io.Writer.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Lines returns one entry per log event.
func (r *Recorder) Lines() []string {
	s := strings.TrimSpace(r.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Contains reports whether any event contains substr.
func (r *Recorder) Contains(substr string) bool {
	return strings.Contains(r.String(), substr)
}

// Capture installs a Recorder as the default logger until the test ends.
func Capture(t testing.TB) *Recorder {
	t.Helper()
	prev := *Default()
	r := NewRecorder(t)
	SetDefault(r.Logger)
	t.Cleanup(func() { SetDefault(prev) })
	return r
}
