package filter

import (
	"sort"

	"github.com/dumpsift/dumpsift/dumptable"
)

// LookupTable accumulates the observed values of tracked columns across
// passes. Writes land in a staging area invisible to reads until Commit,
// which the pass executor calls at each level boundary: a level only ever
// consults values captured by strictly earlier levels. Entries never
// shrink.
type LookupTable struct {
	committed map[dumptable.ColumnKey]map[string]struct{}
	staged    map[dumptable.ColumnKey]map[string]struct{}
}

func NewLookupTable() *LookupTable {
	return &LookupTable{
		committed: make(map[dumptable.ColumnKey]map[string]struct{}),
		staged:    make(map[dumptable.ColumnKey]map[string]struct{}),
	}
}

// Register creates an empty staged entry for key. The pass executor calls
// this before streaming a table so that a fully filtered-out table still
// commits an (empty) entry, distinguishing "captured nothing" from "never
// captured".
func (t *LookupTable) Register(key dumptable.ColumnKey) {
	if _, ok := t.staged[key]; !ok {
		t.staged[key] = make(map[string]struct{})
	}
}

// Track records one observed raw value for key.
func (t *LookupTable) Track(key dumptable.ColumnKey, value string) {
	t.Register(key)
	t.staged[key][value] = struct{}{}
}

// Contains reports membership of value in the committed entry for key.
// tracked is false when no committed entry exists yet.
func (t *LookupTable) Contains(key dumptable.ColumnKey, value string) (member, tracked bool) {
	set, ok := t.committed[key]
	if !ok {
		return false, false
	}
	_, member = set[value]
	return member, true
}

// Commit folds every staged entry into the committed table.
func (t *LookupTable) Commit() {
	for key, values := range t.staged {
		set, ok := t.committed[key]
		if !ok {
			set = make(map[string]struct{}, len(values))
			t.committed[key] = set
		}
		for v := range values {
			set[v] = struct{}{}
		}
	}
	t.staged = make(map[dumptable.ColumnKey]map[string]struct{})
}

// StagedCount returns the number of values staged for key since the last
// Commit.
func (t *LookupTable) StagedCount(key dumptable.ColumnKey) int {
	return len(t.staged[key])
}

// CommittedValues returns the sorted committed values for key, for logging
// and tests.
func (t *LookupTable) CommittedValues(key dumptable.ColumnKey) ([]string, bool) {
	set, ok := t.committed[key]
	if !ok {
		return nil, false
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, true
}
