// Package pipeline wires the full sift run together: schema pre-scan,
// check compilation, dump explosion, per-level filtering passes and final
// reassembly.
package pipeline

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/config"
	"github.com/dumpsift/dumpsift/filter"
	"github.com/dumpsift/dumpsift/introspect"
	"github.com/dumpsift/dumpsift/statement"
	"github.com/rs/zerolog"
)

// Options configures one sift run.
type Options struct {
	InputPath  string
	OutputPath string
	WorkingDir string
	Config     config.Config
}

// ScanSchema reads the dump once and collects every CREATE TABLE into a
// catalog, so checks can be compiled and validated before any output file
// exists.
func ScanSchema(inputPath string) (*introspect.Catalog, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dump %s", inputPath)
	}
	defer func() { _ = in.Close() }()

	catalog := introspect.NewCatalog()
	scanner := statement.NewScanner(in)
	for scanner.Scan() {
		stmt := scanner.Statement()
		if stmt.Kind != statement.KindCreateTable {
			continue
		}
		if err := catalog.AddCreateTable(stmt.Raw); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "scanning dump %s", inputPath)
	}
	return catalog, nil
}

// Run executes a complete sift: it fails on configuration and structural
// problems before writing anything, then splits the dump, filters each
// table level by level and reassembles the result at OutputPath.
func Run(logger zerolog.Logger, opts Options) error {
	catalog, err := ScanSchema(opts.InputPath)
	if err != nil {
		return err
	}
	checks, err := filter.CompileRules(opts.Config.FilterInserts, catalog)
	if err != nil {
		return err
	}
	levels, err := filter.ResolveLevels(checks)
	if err != nil {
		return err
	}
	logger.Info().
		Int("checks", len(checks)).
		Int("levels", len(levels)).
		Msg("filter checks compiled")

	result, err := Explode(logger, opts.InputPath, opts.WorkingDir, opts.Config.AllowsData)
	if err != nil {
		return err
	}
	if err := RunPasses(logger, catalog, levels, result); err != nil {
		return err
	}
	return Gather(logger, result.SkeletonPath, opts.OutputPath)
}
