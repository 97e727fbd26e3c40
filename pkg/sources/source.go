// Package sources defines the adapter contract shared by the local env file
// and every remote configuration store.
//
// The reconciler only sees snapshots and a Capabilities descriptor, so adding
// a store means writing one adapter:
//
//	type Source interface {
//	    ID() ID
//	    Capabilities() Capabilities
//	    List(ctx) (*snapshot.Snapshot, error)
//	    SetMany(ctx, values) error
//	    Remove(ctx, key) error
//	}
package sources

import (
	"context"
	"slices"
	"sync"

	"github.com/ethan-huo/env-tool/pkg/exclude"
	"github.com/ethan-huo/env-tool/pkg/snapshot"
)

// ID represents the identifier of a source.
type ID string

// String returns the string representation of a source id.
func (id ID) String() string {
	return string(id)
}

// Known source ids.
const (
	LocalID    ID = "local"
	ConvexID   ID = "convex"
	WranglerID ID = "wrangler"
)

// RemoteIDs returns the remote targets in reporting order.
func RemoteIDs() []ID {
	return []ID{ConvexID, WranglerID}
}

// IsRemote reports whether id names a remote target.
func (id ID) IsRemote() bool {
	return slices.Contains(RemoteIDs(), id)
}

// Capabilities describes what a source can do. The reconciler reads only
// this descriptor and never asks which concrete adapter it holds.
type Capabilities struct {
	// ValuesVisible is false for stores that only confirm a key exists.
	ValuesVisible bool
	// BulkWrite is true when SetMany is a single remote call.
	BulkWrite bool
}

// Source is a readable and writable set of environment variables.
type Source interface {
	ID() ID
	Capabilities() Capabilities

	// Reserved returns the store's own namespace, always excluded.
	Reserved() exclude.Rules

	// List returns the current keys. Remote sources return an empty
	// snapshot together with a *errors.RemoteUnavailableError on failure.
	List(ctx context.Context) (*snapshot.Snapshot, error)

	// SetMany writes every pair. Failures for a subset of keys are reported
	// as a *errors.PartialWriteError.
	SetMany(ctx context.Context, values map[string]string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Dependencies lists the external binaries the source runs.
	Dependencies() []Dependency
}

// Target is a remote source plus the user's exclusion rules for it.
type Target struct {
	Source  Source
	Exclude exclude.Rules
}

// ID returns the target's source id.
func (t Target) ID() ID {
	return t.Source.ID()
}

// Rules returns the effective exclusion rules for the target.
func (t Target) Rules() exclude.Rules {
	return exclude.ForTarget(t.Source.Reserved(), t.Exclude)
}

// Dependency is an external binary a source shells out to.
type Dependency struct {
	Name          string
	DisplayName   string
	CheckCommands []string
	InstallURL    string
	Description   string
}

// DependencyStatus is the result of checking a Dependency.
type DependencyStatus struct {
	Available  bool
	Path       string
	CheckError error
}

// Sources is a thread-safe container of targets keyed by id.
type Sources struct {
	mu      sync.RWMutex
	targets map[ID]Target
}

// NewSources creates a new Sources instance.
func NewSources(targets ...Target) *Sources {
	s := &Sources{targets: make(map[ID]Target, len(targets))}
	for _, t := range targets {
		s.targets[t.ID()] = t
	}
	return s
}

// Get returns a target by ID.
func (s *Sources) Get(id ID) (Target, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, found := s.targets[id]
	return t, found
}

// Set sets a target by ID.
func (s *Sources) Set(t Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[t.ID()] = t
}

// Delete deletes a target by ID.
func (s *Sources) Delete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.targets, id)
}

// Len returns the number of targets.
func (s *Sources) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.targets)
}

// IDs returns target ids, known remotes first in reporting order and any
// others sorted after them.
func (s *Sources) IDs() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]ID, 0, len(s.targets))
	for _, id := range RemoteIDs() {
		if _, ok := s.targets[id]; ok {
			ids = append(ids, id)
		}
	}
	var extra []ID
	for id := range s.targets {
		if !id.IsRemote() {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	return append(ids, extra...)
}

// List returns targets in IDs order.
func (s *Sources) List() []Target {
	ids := s.IDs()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Target, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.targets[id])
	}
	return out
}
