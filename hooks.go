package envtool

import (
	"sync"

	"github.com/ethan-huo/env-tool/pkg/sources"
)

// Hook function types for key events
type (
	// KeyWrittenHook is called after a key was written to a target
	KeyWrittenHook func(target sources.ID, key string)

	// KeyRemovedHook is called after a key was removed from a target
	KeyRemovedHook func(target sources.ID, key string)
)

// Hooks registers callbacks fired while a sync is applied.
type Hooks interface {
	// OnKeyWritten registers a callback for successful writes
	OnKeyWritten(KeyWrittenHook)

	// OnKeyRemoved registers a callback for successful removals
	OnKeyRemoved(KeyRemovedHook)
}

// hooks manages event callbacks for applied mutations
type hooks struct {
	mu           sync.RWMutex
	onKeyWritten []KeyWrittenHook
	onKeyRemoved []KeyRemovedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnKeyWritten implements Hooks.
func (c *client) OnKeyWritten(fn KeyWrittenHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onKeyWritten = append(c.hooks.onKeyWritten, fn)
}

// OnKeyRemoved implements Hooks.
func (c *client) OnKeyRemoved(fn KeyRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onKeyRemoved = append(c.hooks.onKeyRemoved, fn)
}

func (h *hooks) keyWritten(target sources.ID, key string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onKeyWritten {
		fn(target, key)
	}
}

func (h *hooks) keyRemoved(target sources.ID, key string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onKeyRemoved {
		fn(target, key)
	}
}
