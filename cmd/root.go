package cmd

import (
	"fmt"
	"os"

	"github.com/dumpsift/dumpsift/cmd/gather"
	"github.com/dumpsift/dumpsift/cmd/sift"
	"github.com/dumpsift/dumpsift/cmd/split"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dumpsift",
	Short: "Referentially consistent subsetting for SQL dumps",
	Long:  `dumpsift filters the rows of a SQL dump down to a consistent subset: rows a kept row references stay, rows referencing a dropped row go with it.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(sift.Command())
	rootCmd.AddCommand(split.Command())
	rootCmd.AddCommand(gather.Command())
}
