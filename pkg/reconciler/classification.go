package reconciler

import "github.com/ethan-huo/env-tool/pkg/snapshot"

// Classification is the state of one key for one target.
type Classification string

const (
	// InSync means the key exists on both sides with equal values.
	InSync Classification = "in-sync"
	// Added means the key exists locally but not on the target.
	Added Classification = "added"
	// Updated means both sides hold the key with different visible values.
	Updated Classification = "updated"
	// RemovedLocally means the target holds a key the local file no longer has.
	RemovedLocally Classification = "removed-locally"
	// MissingRemote is how diff reports Added.
	MissingRemote Classification = "missing-remote"
	// UnknownDrift means both sides hold the key but the target hides values.
	UnknownDrift Classification = "unknown-drift"
)

// String implements fmt.Stringer.
func (c Classification) String() string {
	return string(c)
}

// DiffView maps a sync classification onto the vocabulary diff reports in.
func (c Classification) DiffView() Classification {
	if c == Added {
		return MissingRemote
	}
	return c
}

// NeedsWrite reports whether sync uploads the local value.
func (c Classification) NeedsWrite() bool {
	return c == Added || c == Updated || c == UnknownDrift
}

// Classify compares key across local and remote. ok is false when neither
// side has the key. A target with hidden values never yields Updated.
func Classify(key string, local, remote *snapshot.Snapshot, valuesVisible bool) (c Classification, ok bool) {
	l, inLocal := local.Get(key)
	r, inRemote := remote.Get(key)

	switch {
	case inLocal && !inRemote:
		return Added, true
	case !inLocal && inRemote:
		return RemovedLocally, true
	case !inLocal && !inRemote:
		return "", false
	}

	if !valuesVisible || !r.Known {
		return UnknownDrift, true
	}
	if l.Value == r.Value {
		return InSync, true
	}
	return Updated, true
}
