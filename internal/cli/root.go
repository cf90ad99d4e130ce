// Package cli implements the tlstats command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "tlstats",
	Short:   "Worker-local stats with periodic aggregation",
	Version: version,
	Long: `tlstats demonstrates the worker-local stats library: many writer
goroutines record into their own stat instances with no coordination while
a scheduled background task periodically merges everything into canonical
values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. It is called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(runCmd)
}
