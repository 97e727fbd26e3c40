package reconciler

import (
	"fmt"

	"github.com/ethan-huo/env-tool/pkg/snapshot"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// Result holds the classification of every target.
type Result struct {
	Local   *snapshot.Snapshot
	Targets []*TargetResult
}

// Target returns the result for id.
func (r *Result) Target(id sources.ID) (*TargetResult, bool) {
	for _, t := range r.Targets {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Keys returns every classified key across targets, sorted.
func (r *Result) Keys() []string {
	seen := make(map[string]string)
	for _, t := range r.Targets {
		for _, k := range t.Keys {
			seen[k] = ""
		}
	}
	return snapshot.New(seen).Keys()
}

// TargetResult is the classification for one target.
type TargetResult struct {
	ID            sources.ID
	ValuesVisible bool
	Err           error
	// Snapshot is the remote state that was classified.
	Snapshot *snapshot.Snapshot

	// Classes maps each classified key to its state.
	Classes map[string]Classification
	// Keys lists classified keys in lexicographic order.
	Keys []string
	// Excluded lists keys dropped by exclusion rules, in order.
	Excluded []string
}

// Available reports whether the target could be listed.
func (t *TargetResult) Available() bool {
	return t.Err == nil
}

// Class returns the classification of key.
func (t *TargetResult) Class(key string) (Classification, bool) {
	c, ok := t.Classes[key]
	return c, ok
}

// With returns the keys with any of the given classifications, sorted.
func (t *TargetResult) With(classes ...Classification) []string {
	var out []string
	for _, k := range t.Keys {
		for _, c := range classes {
			if t.Classes[k] == c {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

// Count returns how many keys have classification c.
func (t *TargetResult) Count(c Classification) int {
	return len(t.With(c))
}

// InSync reports whether no key needs any mutation. Unknown drift does not
// count against it.
func (t *TargetResult) InSync() bool {
	return len(t.With(Added, Updated, RemovedLocally)) == 0
}

// String implements fmt.Stringer.
func (t *TargetResult) String() string {
	return fmt.Sprintf("%s: %d in sync, %d added, %d updated, %d removed, %d unverifiable",
		t.ID, t.Count(InSync), t.Count(Added), t.Count(Updated), t.Count(RemovedLocally), t.Count(UnknownDrift))
}
