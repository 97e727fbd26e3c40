// Package reconciler classifies every key of the local env file against each
// remote target and derives the mutation plan that makes a target match.
//
// Reconciliation is pure: it takes snapshots and returns values. Fetching
// and applying live in the adapters and the envtool client.
package reconciler

import (
	"github.com/ethan-huo/env-tool/pkg/exclude"
	"github.com/ethan-huo/env-tool/pkg/snapshot"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// Remote is one target's input to Reconcile.
type Remote struct {
	ID            sources.ID
	Snapshot      *snapshot.Snapshot
	ValuesVisible bool
	// Rules are the effective exclusions, builtins included.
	Rules exclude.Rules
	// Err is the list failure, if any. A target with Err is unavailable:
	// its snapshot is empty and no removals are ever planned for it.
	Err error
}

// Available reports whether the target's list call succeeded.
func (r Remote) Available() bool {
	return r.Err == nil
}

// Reconcile classifies local against every remote. Each target is
// classified independently, so a key excluded for one target is still
// compared for the others. Targets keep their input order.
func Reconcile(local *snapshot.Snapshot, remotes ...Remote) *Result {
	result := &Result{
		Local:   local,
		Targets: make([]*TargetResult, 0, len(remotes)),
	}
	for _, remote := range remotes {
		result.Targets = append(result.Targets, reconcileTarget(local, remote))
	}
	return result
}

func reconcileTarget(local *snapshot.Snapshot, remote Remote) *TargetResult {
	tr := &TargetResult{
		ID:            remote.ID,
		ValuesVisible: remote.ValuesVisible,
		Err:           remote.Err,
		Snapshot:      remote.Snapshot,
		Classes:       make(map[string]Classification),
	}

	for _, key := range snapshot.Union(local, remote.Snapshot) {
		if remote.Rules.Match(key) {
			tr.Excluded = append(tr.Excluded, key)
			continue
		}
		if c, ok := Classify(key, local, remote.Snapshot, remote.ValuesVisible); ok {
			tr.Classes[key] = c
			tr.Keys = append(tr.Keys, key)
		}
	}
	return tr
}
