package pipeline

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/filter"
	"github.com/dumpsift/dumpsift/introspect"
	"github.com/dumpsift/dumpsift/statement"
	"github.com/rs/zerolog"
)

// RunPasses rewrites working files level by level. Values a level tracks
// become visible to lookups only at the level boundary, so every table on a
// level filters against the complete captured sets of the levels before it.
func RunPasses(
	logger zerolog.Logger,
	catalog *introspect.Catalog,
	levels []filter.Level,
	result SplitResult,
) error {
	lookup := filter.NewLookupTable()
	for i, level := range levels {
		for _, set := range level {
			if err := runTablePass(logger, catalog, set, result, lookup); err != nil {
				return errors.Wrapf(err, "filtering table %s", set.Table)
			}
		}
		lookup.Commit()
		logger.Debug().Int("level", i).Int("tables", len(level)).Msg("level committed")
	}
	return nil
}

func runTablePass(
	logger zerolog.Logger,
	catalog *introspect.Catalog,
	set filter.TableCheckSet,
	result SplitResult,
	lookup *filter.LookupTable,
) error {
	// Registering up front makes the difference between "table filtered,
	// nothing survived" and "table never seen" visible to dependents.
	for _, key := range set.TrackedColumns() {
		lookup.Register(key)
	}

	path, ok := result.WorkingFiles[set.Table]
	if !ok {
		logger.Warn().
			Str("table", set.Table.String()).
			Msg("filtered table has no data section in the dump")
		return nil
	}
	schema, ok := catalog.Schema(set.Table)
	if !ok {
		return errors.AssertionFailedf("table %s filtered without a schema", set.Table)
	}

	in, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening working file %s", path)
	}
	defer func() { _ = in.Close() }()

	out, err := newProcWriter(path)
	if err != nil {
		return err
	}
	defer out.Discard()

	var kept, dropped int64
	scanner := statement.NewScanner(in)
	for scanner.Scan() {
		stmt := scanner.Statement()
		if !stmt.IsInsert() {
			if err := out.WriteString(stmt.Raw); err != nil {
				return err
			}
			continue
		}
		pass, err := evaluateInsert(set, schema, catalog, stmt.Raw, lookup)
		if err != nil {
			return err
		}
		if !pass {
			dropped++
			continue
		}
		kept++
		if err := out.WriteString(stmt.Raw); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scanning working file %s", path)
	}
	if err := out.Commit(); err != nil {
		return err
	}

	rowsKept.WithLabelValues(set.Table.String()).Add(float64(kept))
	rowsDropped.WithLabelValues(set.Table.String()).Add(float64(dropped))
	for _, key := range set.TrackedColumns() {
		valuesTracked.WithLabelValues(set.Table.String()).Add(float64(lookup.StagedCount(key)))
	}
	logger.Info().
		Str("table", set.Table.String()).
		Int64("kept", kept).
		Int64("dropped", dropped).
		Msg("table filtered")
	return nil
}

func evaluateInsert(
	set filter.TableCheckSet,
	schema introspect.TableSchema,
	catalog *introspect.Catalog,
	raw string,
	lookup *filter.LookupTable,
) (bool, error) {
	ins, err := statement.ParseInsert(raw)
	if err != nil {
		return false, err
	}
	if ins.Table.Compare(set.Table) != 0 {
		return false, errors.Mark(
			errors.Newf("INSERT into %s inside the data section of %s", ins.Table, set.Table),
			filter.ErrStructural,
		)
	}
	columns, err := catalog.ResolveInsertColumns(set.Table, raw)
	if err != nil {
		return false, err
	}
	values, err := ins.Values()
	if err != nil {
		return false, err
	}
	if len(values) != len(columns) {
		return false, errors.Mark(
			errors.Newf("INSERT into %s carries %d values for %d columns",
				set.Table, len(values), len(columns)),
			filter.ErrStructural,
		)
	}
	row := make(filter.Row, len(columns))
	for i, col := range columns {
		row[col] = values[i]
	}
	return set.Apply(row, schema, lookup)
}
