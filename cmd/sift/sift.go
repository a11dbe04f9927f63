package sift

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/cmd/internal/cmdutil"
	"github.com/dumpsift/dumpsift/config"
	"github.com/dumpsift/dumpsift/pipeline"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var (
		configPath string
		outputPath string
		workingDir string
	)

	cmd := &cobra.Command{
		Use:   "sift <dump.sql>",
		Short: "Filter a dump down to a referentially consistent subset.",
		Long: `Sift applies the configured per-table checks to every INSERT row of the
dump and writes a reassembled dump containing only the surviving rows.
Rows whose lookups point at dropped rows are dropped too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			cmdutil.RunMetricsServer(logger)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if workingDir == "" {
				if workingDir, err = os.MkdirTemp("", "dumpsift"); err != nil {
					return errors.Wrap(err, "creating working directory")
				}
				defer func() { _ = os.RemoveAll(workingDir) }()
			}
			return pipeline.Run(logger, pipeline.Options{
				InputPath:  args[0],
				OutputPath: outputPath,
				WorkingDir: workingDir,
				Config:     cfg,
			})
		},
	}
	cmd.Flags().StringVar(
		&configPath,
		"config",
		"sift.json",
		"path to the JSON filter configuration",
	)
	cmd.Flags().StringVarP(
		&outputPath,
		"output",
		"o",
		"",
		"path the filtered dump is written to",
	)
	cmd.Flags().StringVar(
		&workingDir,
		"working-dir",
		"",
		"directory for the skeleton and per-table working files; a temp directory if empty",
	)
	_ = cmd.MarkFlagRequired("output")
	cmdutil.RegisterLoggerFlags(cmd)
	cmdutil.RegisterMetricsFlags(cmd)
	return cmd
}
