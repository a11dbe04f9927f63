package gather

import (
	"github.com/dumpsift/dumpsift/cmd/internal/cmdutil"
	"github.com/dumpsift/dumpsift/pipeline"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "gather <skeleton.sql>",
		Short: "Reassemble a dump from a skeleton and its working files.",
		Long: `Gather streams the skeleton to the output path, replacing every inline
marker with the contents of the working file it points at.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			return pipeline.Gather(logger, args[0], outputPath)
		},
	}
	cmd.Flags().StringVarP(
		&outputPath,
		"output",
		"o",
		"",
		"path the reassembled dump is written to",
	)
	_ = cmd.MarkFlagRequired("output")
	cmdutil.RegisterLoggerFlags(cmd)
	return cmd
}
