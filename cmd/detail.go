package cmd

import (
	"github.com/spf13/cobra"
)

var detailStdout bool

var detailCmd = &cobra.Command{
	Use:   "detail <rawfile>",
	Short: "Validate a raw file and report per-column sizes and null counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(args[0], modeDetail, detailStdout)
	},
}

func init() {
	RootCmd.AddCommand(detailCmd)

	detailCmd.Flags().BoolVar(&detailStdout, "stdout", false, "Print the report instead of writing it to the output directory")
}
