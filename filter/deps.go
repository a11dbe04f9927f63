package filter

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/dumpsift/dumpsift/introspect"
)

// Level is a group of tables processed within the same pass; no member
// depends on another member.
type Level []TableCheckSet

// CompileRules compiles every per-table definition list into checks,
// including the implicit tracking checks that lookups emit for their
// targets. Targets are validated against the dump's schema; logically
// identical checks register once.
func CompileRules(
	rules map[string][]string, catalog *introspect.Catalog,
) ([]Check, error) {
	tables := make([]string, 0, len(rules))
	for table := range rules {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var checks []Check
	seen := make(map[string]struct{})
	add := func(c Check) {
		if _, ok := seen[c.Key()]; ok {
			return
		}
		seen[c.Key()] = struct{}{}
		checks = append(checks, c)
	}

	for _, name := range tables {
		table := dumptable.Name(name)
		schema, ok := catalog.Schema(table)
		if !ok {
			return nil, errors.Mark(
				errors.Newf("filter references table %s, which the dump does not define", table),
				ErrConfig,
			)
		}
		for _, definition := range rules[name] {
			check, err := Compile(table, definition, schema)
			if err != nil {
				return nil, err
			}
			add(check)
			if check.Kind != KindLookup {
				continue
			}
			targetSchema, ok := catalog.Schema(check.Target.Table())
			if !ok {
				return nil, errors.Mark(
					errors.Newf("lookup %q targets table %s, which the dump does not define",
						definition, check.Target.Table()),
					ErrStructural,
				)
			}
			if !targetSchema.HasColumn(check.Target.Column()) {
				return nil, errors.Mark(
					errors.Newf("lookup %q targets column %s, which table %s does not have",
						definition, check.Target, check.Target.Table()),
					ErrStructural,
				)
			}
			add(NewTracking(check.Target))
		}
	}
	return checks, nil
}

// ResolveLevels groups checks per table and orders the tables into
// dependency levels: a table always lands on a level strictly greater than
// every table its lookups target, so captured values are committed before
// any dependent consults them. Tables depending on several independent
// targets level after all of them. A dependency cycle is fatal.
func ResolveLevels(checks []Check) ([]Level, error) {
	perTable := make(map[dumptable.Name][]Check)
	targets := make(map[dumptable.Name]map[dumptable.Name]struct{})
	for _, c := range checks {
		perTable[c.Table] = append(perTable[c.Table], c)
		if c.Kind == KindLookup && c.Target.Table() != c.Table {
			if targets[c.Table] == nil {
				targets[c.Table] = make(map[dumptable.Name]struct{})
			}
			targets[c.Table][c.Target.Table()] = struct{}{}
		}
	}

	depth := make(map[dumptable.Name]int, len(perTable))
	for len(depth) < len(perTable) {
		progressed := false
		for table := range perTable {
			if _, done := depth[table]; done {
				continue
			}
			level := 0
			ready := true
			for target := range targets[table] {
				d, done := depth[target]
				if !done {
					ready = false
					break
				}
				if d+1 > level {
					level = d + 1
				}
			}
			if ready {
				depth[table] = level
				progressed = true
			}
		}
		if !progressed {
			return nil, errors.Mark(
				errors.Newf("dependency cycle among tables %s", strings.Join(unleveled(perTable, depth), ", ")),
				ErrStructural,
			)
		}
	}

	maxDepth := -1
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	levels := make([]Level, maxDepth+1)
	for table, d := range depth {
		levels[d] = append(levels[d], NewTableCheckSet(table, perTable[table]))
	}
	for _, level := range levels {
		sort.Slice(level, func(i, j int) bool {
			return level[i].Table.Less(level[j].Table)
		})
	}
	return levels, nil
}

func unleveled(
	perTable map[dumptable.Name][]Check, depth map[dumptable.Name]int,
) []string {
	var names []string
	for table := range perTable {
		if _, done := depth[table]; !done {
			names = append(names, string(table))
		}
	}
	sort.Strings(names)
	return names
}
