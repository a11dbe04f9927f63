package split

import (
	"github.com/dumpsift/dumpsift/cmd/internal/cmdutil"
	"github.com/dumpsift/dumpsift/config"
	"github.com/dumpsift/dumpsift/dumptable"
	"github.com/dumpsift/dumpsift/pipeline"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var (
		configPath string
		workingDir string
	)

	cmd := &cobra.Command{
		Use:   "split <dump.sql>",
		Short: "Split a dump into a skeleton and one file per table data section.",
		Long: `Split explodes the dump under the working directory without filtering
anything. The skeleton file keeps inline markers where each data section
was, so gather can put the dump back together.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			allowed := func(dumptable.Name) bool { return true }
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				allowed = cfg.AllowsData
			}
			_, err = pipeline.Explode(logger, args[0], workingDir, allowed)
			return err
		},
	}
	cmd.Flags().StringVar(
		&configPath,
		"config",
		"",
		"optional JSON configuration; its allow list drops disallowed INSERTs during the split",
	)
	cmd.Flags().StringVar(
		&workingDir,
		"working-dir",
		".",
		"directory the skeleton and per-table files are written to",
	)
	cmdutil.RegisterLoggerFlags(cmd)
	return cmd
}
