package reconciler

import (
	"github.com/ethan-huo/env-tool/pkg/snapshot"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

// Mutation is one key/value write.
type Mutation struct {
	Key   string
	Value string
}

// Plan is the ordered set of mutations for one target. Writes (Add then
// Update) are applied before any Remove.
type Plan struct {
	Target sources.ID
	Add    []Mutation
	// Update holds changed values and, for hidden-value targets, every key
	// present on both sides.
	Update []Mutation
	Remove []string
	// SkippedRemovals were not planned because the target is unavailable.
	SkippedRemovals []string
}

// Plan builds the mutation plan for the target. Values come from local.
func (t *TargetResult) Plan(local *snapshot.Snapshot) *Plan {
	p := &Plan{Target: t.ID}
	for _, key := range t.Keys {
		switch t.Classes[key] {
		case Added:
			p.Add = append(p.Add, Mutation{Key: key, Value: local.Value(key)})
		case Updated, UnknownDrift:
			p.Update = append(p.Update, Mutation{Key: key, Value: local.Value(key)})
		case RemovedLocally:
			if t.Available() {
				p.Remove = append(p.Remove, key)
			} else {
				p.SkippedRemovals = append(p.SkippedRemovals, key)
			}
		}
	}
	return p
}

// Writes returns Add and Update merged into one map for SetMany.
func (p *Plan) Writes() map[string]string {
	out := make(map[string]string, len(p.Add)+len(p.Update))
	for _, m := range p.Add {
		out[m.Key] = m.Value
	}
	for _, m := range p.Update {
		out[m.Key] = m.Value
	}
	return out
}

// WriteKeys returns the keys of Add then Update.
func (p *Plan) WriteKeys() []string {
	keys := make([]string, 0, len(p.Add)+len(p.Update))
	for _, m := range p.Add {
		keys = append(keys, m.Key)
	}
	for _, m := range p.Update {
		keys = append(keys, m.Key)
	}
	return keys
}

// Empty reports whether the plan does nothing.
func (p *Plan) Empty() bool {
	return len(p.Add) == 0 && len(p.Update) == 0 && len(p.Remove) == 0
}
