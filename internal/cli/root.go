package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "cadence",
	Short:   "A fixed-rate loop driver with debt accounting",
	Version: version,
	Long: `Cadence drives a workload at a fixed target rate, measuring wall-clock
drift every iteration and carrying timing debt forward so the long-run
average rate converges on the target even when iterations overrun.

The run command exercises the loop against a simulated workload and
reports wait-time and lateness distributions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is provided, print help
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	// Add subcommands to root command
	RootCmd.AddCommand(runCmd)
}
