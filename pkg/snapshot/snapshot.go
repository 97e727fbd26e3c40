// Package snapshot holds an immutable point-in-time view of one source's keys.
package snapshot

import (
	"maps"
	"slices"
)

// Entry is the state of one key in a snapshot. Known is false when the
// source can only confirm the key exists (existence-only stores).
type Entry struct {
	Value string
	Known bool
}

// Snapshot maps keys to entries. The zero value is an empty snapshot.
type Snapshot struct {
	entries map[string]Entry
}

// New returns a snapshot whose values are all visible.
func New(values map[string]string) *Snapshot {
	entries := make(map[string]Entry, len(values))
	for k, v := range values {
		entries[k] = Entry{Value: v, Known: true}
	}
	return &Snapshot{entries: entries}
}

// FromKeys returns an existence-only snapshot.
func FromKeys(keys []string) *Snapshot {
	entries := make(map[string]Entry, len(keys))
	for _, k := range keys {
		entries[k] = Entry{}
	}
	return &Snapshot{entries: entries}
}

// Empty returns a snapshot with no keys.
func Empty() *Snapshot {
	return &Snapshot{}
}

// Get returns the entry for key.
func (s *Snapshot) Get(key string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.entries[key]
	return e, ok
}

// Has reports whether key is present.
func (s *Snapshot) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Value returns the value for key, or "" when absent or unknown.
func (s *Snapshot) Value(key string) string {
	e, _ := s.Get(key)
	return e.Value
}

// Len returns the number of keys.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Keys returns all keys in lexicographic order.
func (s *Snapshot) Keys() []string {
	if s == nil {
		return []string{}
	}
	return slices.Sorted(maps.Keys(s.entries))
}

// Values returns a copy of the known key/value pairs.
func (s *Snapshot) Values() map[string]string {
	out := make(map[string]string, s.Len())
	if s == nil {
		return out
	}
	for k, e := range s.entries {
		if e.Known {
			out[k] = e.Value
		}
	}
	return out
}

// Union returns the sorted, de-duplicated keys of every snapshot.
func Union(snaps ...*Snapshot) []string {
	seen := make(map[string]struct{})
	for _, s := range snaps {
		if s == nil {
			continue
		}
		for k := range s.entries {
			seen[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
