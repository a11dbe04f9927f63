// Package filter compiles declarative per-table row rules into checks,
// orders the tables they touch into dependency levels and evaluates rows
// against them.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/dumpsift/dumpsift/introspect"
)

// Kind discriminates the closed set of check variants.
type Kind int

const (
	// KindExpression evaluates a boolean predicate over one column's
	// decoded value.
	KindExpression Kind = iota
	// KindLookup requires the raw value to belong to the set captured for
	// the target column.
	KindLookup
	// KindTracking always passes and records the raw value it sees.
	KindTracking
)

func (k Kind) String() string {
	switch k {
	case KindExpression:
		return "expression"
	case KindLookup:
		return "lookup"
	case KindTracking:
		return "tracking"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Check is one compiled rule bound to a single column of a single table.
type Check struct {
	Kind   Kind
	Table  dumptable.Name
	Column string

	// Target is the tracked column a lookup consults. Lookup checks only.
	Target dumptable.ColumnKey

	definition string
	predicate  *govaluate.EvaluableExpression
}

// Key is a stable identity used to suppress duplicate registration of
// logically identical checks.
func (c Check) Key() string {
	return fmt.Sprintf("%s: %s: %s", c.Kind, c.Table, c.definition)
}

func (c Check) ColumnKey() dumptable.ColumnKey {
	return dumptable.MakeColumnKey(c.Table, c.Column)
}

func (c Check) Definition() string {
	return c.definition
}

// predicateFunctions are helpers available inside expression definitions.
var predicateFunctions = map[string]govaluate.ExpressionFunction{
	// timestamp('2024-01-02') or timestamp('2024-01-02 15:04:05') yields
	// unix seconds, comparable against date and datetime columns.
	"timestamp": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, errors.Newf("timestamp takes one argument, got %d", len(args))
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, errors.Newf("timestamp takes a string, got %T", args[0])
		}
		ts, err := parseTimestamp(s)
		if err != nil {
			return nil, err
		}
		return ts, nil
	},
}

// Compile turns one raw definition into a check bound to table. A
// definition containing "->" declares a lookup, written
// "sourceColumn->targetTable.targetColumn"; anything else compiles as a
// predicate expression whose single free variable names the bound column.
func Compile(
	table dumptable.Name, definition string, schema introspect.TableSchema,
) (Check, error) {
	if strings.Contains(definition, "->") {
		return compileLookup(table, definition, schema)
	}
	return compileExpression(table, definition, schema)
}

func compileLookup(
	table dumptable.Name, definition string, schema introspect.TableSchema,
) (Check, error) {
	parts := strings.Split(definition, "->")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Check{}, errors.Mark(
			errors.Newf("table %s: malformed lookup definition %q", table, definition),
			ErrConfig,
		)
	}
	column := parts[0]
	target, err := dumptable.ParseColumnKey(parts[1])
	if err != nil {
		return Check{}, errors.Mark(errors.Wrapf(err, "table %s: lookup %q", table, definition), ErrConfig)
	}
	if !schema.HasColumn(column) {
		return Check{}, errors.Mark(
			errors.Newf("table %s has no column %q (lookup %q)", table, column, definition),
			ErrConfig,
		)
	}
	return Check{
		Kind:       KindLookup,
		Table:      table,
		Column:     column,
		Target:     target,
		definition: definition,
	}, nil
}

func compileExpression(
	table dumptable.Name, definition string, schema introspect.TableSchema,
) (Check, error) {
	predicate, err := govaluate.NewEvaluableExpressionWithFunctions(definition, predicateFunctions)
	if err != nil {
		return Check{}, errors.Mark(
			errors.Wrapf(err, "table %s: compiling predicate %q", table, definition),
			ErrConfig,
		)
	}
	vars := distinct(predicate.Vars())
	if len(vars) == 0 {
		return Check{}, errors.Mark(
			errors.Newf("table %s: predicate %q references no column", table, definition),
			ErrConfig,
		)
	}
	if len(vars) > 1 {
		// Predicates over several columns are unsupported: the bound column
		// would be ambiguous.
		return Check{}, errors.Mark(
			errors.Newf("table %s: predicate %q references columns %v; exactly one is supported",
				table, definition, vars),
			ErrConfig,
		)
	}
	column := vars[0]
	if !schema.HasColumn(column) {
		return Check{}, errors.Mark(
			errors.Newf("table %s has no column %q (predicate %q)", table, column, definition),
			ErrConfig,
		)
	}
	return Check{
		Kind:       KindExpression,
		Table:      table,
		Column:     column,
		definition: definition,
		predicate:  predicate,
	}, nil
}

// NewTracking builds the implicit side-effect-only check a lookup emits for
// its target column.
func NewTracking(key dumptable.ColumnKey) Check {
	return Check{
		Kind:       KindTracking,
		Table:      key.Table(),
		Column:     key.Column(),
		definition: string(key),
	}
}

// Test runs the check against one raw value. Expression checks decode the
// value per the column's declared type and require a boolean predicate
// result; lookup checks pass vacuously until their target key has been
// committed; tracking checks record the raw value and always pass.
func (c Check) Test(raw string, kind introspect.TypeKind, lookup *LookupTable) (bool, error) {
	switch c.Kind {
	case KindExpression:
		value, err := decodeValue(raw, kind)
		if err != nil {
			return false, errors.Wrapf(err, "table %s column %s", c.Table, c.Column)
		}
		result, err := c.predicate.Evaluate(map[string]interface{}{c.Column: value})
		if err != nil {
			return false, errors.Mark(
				errors.Wrapf(err, "table %s: evaluating %q", c.Table, c.definition),
				ErrConfig,
			)
		}
		pass, ok := result.(bool)
		if !ok {
			return false, errors.Mark(
				errors.Newf("table %s: predicate %q returned %T, want bool", c.Table, c.definition, result),
				ErrConfig,
			)
		}
		return pass, nil
	case KindLookup:
		member, tracked := lookup.Contains(c.Target, raw)
		if !tracked {
			return true, nil
		}
		return member, nil
	case KindTracking:
		lookup.Track(c.ColumnKey(), raw)
		return true, nil
	default:
		return false, errors.AssertionFailedf("unknown check kind %d", int(c.Kind))
	}
}

// TableCheckSet is the ordered list of checks applied to one table's rows.
// Tracking checks sort last so they only observe rows that already passed
// every other check.
type TableCheckSet struct {
	Table  dumptable.Name
	Checks []Check
}

func NewTableCheckSet(table dumptable.Name, checks []Check) TableCheckSet {
	ordered := make([]Check, len(checks))
	copy(ordered, checks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Kind != KindTracking && ordered[j].Kind == KindTracking
	})
	return TableCheckSet{Table: table, Checks: ordered}
}

// TrackedColumns lists the column keys this set's tracking checks capture.
func (s TableCheckSet) TrackedColumns() []dumptable.ColumnKey {
	var keys []dumptable.ColumnKey
	for _, c := range s.Checks {
		if c.Kind == KindTracking {
			keys = append(keys, c.ColumnKey())
		}
	}
	return keys
}

// Row is one decoded INSERT row: raw value token per column name.
type Row map[string]string

// Apply runs the set's checks in order against one row. The first failing
// check rejects the row and skips the rest.
func (s TableCheckSet) Apply(
	row Row, schema introspect.TableSchema, lookup *LookupTable,
) (bool, error) {
	for _, c := range s.Checks {
		raw, ok := row[c.Column]
		if !ok {
			return false, errors.Mark(
				errors.Newf("row of %s carries no value for column %q", s.Table, c.Column),
				ErrStructural,
			)
		}
		kind, _ := schema.ColumnKind(c.Column)
		pass, err := c.Test(raw, kind, lookup)
		if err != nil {
			return false, err
		}
		if !pass {
			return false, nil
		}
	}
	return true, nil
}

func distinct(names []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
