// Package watcher reruns a sync whenever the local env files change.
//
// Runs never overlap. A change that arrives while a run is active is
// remembered as a single pending rerun, however many changes arrive:
//
//	Idle --Trigger--> Running --done--> Idle
//	Running --Trigger--> PendingRerun --done--> Running
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/ethan-huo/env-tool/pkg/logging"
)

// State is the watcher's run state.
type State int

const (
	// Idle means no run is active.
	Idle State = iota
	// Running means a run is active and nothing is queued.
	Running
	// PendingRerun means a run is active and another will follow it.
	PendingRerun
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case PendingRerun:
		return "pending-rerun"
	default:
		return "unknown"
	}
}

// RunFunc is one full reconcile-and-apply pass.
type RunFunc func(ctx context.Context) error

// DefaultDebounce collapses bursts of file events from a single save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher serializes runs.
type Watcher struct {
	run      RunFunc
	debounce time.Duration
	onDone   func(err error)

	mu     sync.Mutex
	state  State
	runs   int
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the delay between the last file event and the trigger.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnDone registers a callback invoked after every run.
func WithOnDone(fn func(err error)) Option {
	return func(w *Watcher) {
		w.onDone = fn
	}
}

// New creates a Watcher around run.
func New(run RunFunc, opts ...Option) *Watcher {
	w := &Watcher{run: run, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Trigger requests a run and returns immediately. It starts a run when
// idle, and otherwise marks one rerun as pending. It does nothing once ctx
// is done or the watcher is closed.
func (w *Watcher) Trigger(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	switch w.state {
	case Idle:
		w.state = Running
		w.wg.Add(1)
		go w.loop(ctx)
	case Running:
		w.state = PendingRerun
		logging.FromContext(ctx).Debug().Msg("run in progress, queued rerun")
	case PendingRerun:
	}
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	logger := logging.FromContext(ctx)

	for {
		err := w.run(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("sync run failed")
		}
		if w.onDone != nil {
			w.onDone(err)
		}

		w.mu.Lock()
		w.runs++
		if w.state == PendingRerun && ctx.Err() == nil {
			w.state = Running
			w.mu.Unlock()
			logger.Debug().Msg("rerunning after change during run")
			continue
		}
		w.state = Idle
		w.mu.Unlock()
		return
	}
}

// State returns the current state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Runs returns how many runs have completed.
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// Wait blocks until no run is active.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// Close stops accepting triggers and waits for the active run, including
// a pending rerun, to finish.
func (w *Watcher) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.wg.Wait()
}
