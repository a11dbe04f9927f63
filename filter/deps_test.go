package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/dumpsift/dumpsift/introspect"
	"github.com/stretchr/testify/require"
)

// TestResolveLevels drives CompileRules and ResolveLevels from testdata.
// Each "levels" directive declares schemas and rules line by line and
// expects the resulting level layout, or the error the input provokes.
func TestResolveLevels(t *testing.T) {
	datadriven.RunTest(t, "testdata/levels", func(t *testing.T, d *datadriven.TestData) string {
		require.Equal(t, "levels", d.Cmd)

		catalog := introspect.NewCatalog()
		rules := make(map[string][]string)
		for _, line := range strings.Split(d.Input, "\n") {
			fields := strings.SplitN(line, " ", 3)
			require.Len(t, fields, 3, "malformed directive line %q", line)
			switch fields[0] {
			case "schema":
				schema := introspect.TableSchema{Table: dumptable.Name(fields[1])}
				for _, decl := range strings.Fields(fields[2]) {
					parts := strings.SplitN(decl, ":", 2)
					require.Len(t, parts, 2, "malformed column declaration %q", decl)
					schema.Columns = append(schema.Columns, introspect.Column{
						Name: parts[0],
						Kind: kindFromName(t, parts[1]),
					})
				}
				catalog.AddSchema(schema)
			case "rule":
				rules[fields[1]] = append(rules[fields[1]], fields[2])
			default:
				t.Fatalf("unknown directive line %q", line)
			}
		}

		checks, err := CompileRules(rules, catalog)
		if err != nil {
			return fmt.Sprintf("error: %s\n", err)
		}
		levels, err := ResolveLevels(checks)
		if err != nil {
			return fmt.Sprintf("error: %s\n", err)
		}

		var sb strings.Builder
		for i, level := range levels {
			names := make([]string, len(level))
			for j, set := range level {
				names[j] = string(set.Table)
			}
			fmt.Fprintf(&sb, "%d: %s\n", i, strings.Join(names, " "))
		}
		return sb.String()
	})
}

func kindFromName(t *testing.T, name string) introspect.TypeKind {
	switch name {
	case "int":
		return introspect.KindInt
	case "string":
		return introspect.KindString
	case "time":
		return introspect.KindTime
	case "decimal":
		return introspect.KindDecimal
	default:
		t.Fatalf("unknown column kind %q", name)
		return introspect.KindString
	}
}

func TestCompileRulesUnknownTable(t *testing.T) {
	catalog := introspect.NewCatalog()
	catalog.AddSchema(usersSchema())

	_, err := CompileRules(map[string][]string{"ghosts": {"id == 1"}}, catalog)
	require.True(t, errors.Is(err, ErrConfig), "expected ErrConfig, got %v", err)
}
