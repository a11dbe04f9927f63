package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/dumpsift/dumpsift/statement"
	"github.com/rs/zerolog"
)

// SkeletonFileName is the working-dir file holding everything that is not
// table data, with inline markers standing in for each table's rows.
const SkeletonFileName = "skeleton.sql"

// SplitResult records where Explode left the pieces of a dump.
type SplitResult struct {
	SkeletonPath string
	WorkingFiles map[dumptable.Name]string
}

// Tables returns the split tables in name order.
func (r SplitResult) Tables() []dumptable.Name {
	tables := make([]dumptable.Name, 0, len(r.WorkingFiles))
	for table := range r.WorkingFiles {
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Less(tables[j]) })
	return tables
}

// Explode splits the dump at inputPath into a skeleton file plus one
// working file per table data section under workingDir. The skeleton keeps
// every statement outside a data section; an inline marker takes each
// section's place. INSERT statements of tables for which allowed returns
// false are dropped outright.
func Explode(
	logger zerolog.Logger,
	inputPath string,
	workingDir string,
	allowed func(dumptable.Name) bool,
) (SplitResult, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return SplitResult{}, errors.Wrapf(err, "opening dump %s", inputPath)
	}
	defer func() { _ = in.Close() }()

	skeleton, err := newProcWriter(filepath.Join(workingDir, SkeletonFileName))
	if err != nil {
		return SplitResult{}, err
	}
	defer skeleton.Discard()

	result := SplitResult{
		SkeletonPath: filepath.Join(workingDir, SkeletonFileName),
		WorkingFiles: make(map[dumptable.Name]string),
	}
	writers := make(map[dumptable.Name]*procWriter)
	defer func() {
		for _, w := range writers {
			w.Discard()
		}
	}()

	scanner := statement.NewScanner(in)
	for scanner.Scan() {
		stmt := scanner.Statement()
		if stmt.Table == "" {
			if err := skeleton.WriteString(stmt.Raw); err != nil {
				return SplitResult{}, err
			}
			statementsSplit.WithLabelValues("skeleton").Inc()
			continue
		}
		w, ok := writers[stmt.Table]
		if !ok {
			path := stmt.Table.WorkingFile(workingDir)
			if w, err = newProcWriter(path); err != nil {
				return SplitResult{}, err
			}
			writers[stmt.Table] = w
			result.WorkingFiles[stmt.Table] = path
			abs, err := filepath.Abs(path)
			if err != nil {
				return SplitResult{}, errors.Wrapf(err, "resolving %s", path)
			}
			if err := skeleton.WriteString(statement.InlineMarker(abs, stmt.Table)); err != nil {
				return SplitResult{}, err
			}
			logger.Debug().
				Str("table", stmt.Table.String()).
				Str("path", path).
				Msg("opened working file")
		}
		if stmt.IsInsert() && !allowed(stmt.Table) {
			statementsSplit.WithLabelValues("dropped").Inc()
			continue
		}
		if err := w.WriteString(stmt.Raw); err != nil {
			return SplitResult{}, err
		}
		statementsSplit.WithLabelValues("table").Inc()
	}
	if err := scanner.Err(); err != nil {
		return SplitResult{}, errors.Wrapf(err, "scanning dump %s", inputPath)
	}

	for table, w := range writers {
		if err := w.Commit(); err != nil {
			return SplitResult{}, errors.Wrapf(err, "finishing working file for %s", table)
		}
	}
	if err := skeleton.Commit(); err != nil {
		return SplitResult{}, err
	}
	logger.Info().
		Int("tables", len(result.WorkingFiles)).
		Msg("dump split into working files")
	return result, nil
}
