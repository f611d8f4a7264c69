package cmd

import (
	"github.com/spf13/cobra"
)

var summaryStdout bool

var summaryCmd = &cobra.Command{
	Use:   "summary <rawfile>",
	Short: "Validate a raw file and report the names of failing columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(args[0], modeSummary, summaryStdout)
	},
}

func init() {
	RootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().BoolVar(&summaryStdout, "stdout", false, "Print the report instead of writing it to the output directory")
}
