package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "poolkit",
	Short: "poolkit - bounded worker pool and running median toolkit",
	Long: `poolkit runs tasks on a fixed-size worker pool with a bounded queue
and tracks running medians of numeric streams. It can run a one-off demo,
compute medians from the command line or serve a long-running pool with
Prometheus metrics and scheduled synthetic load.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(medianCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(serveCmd)
}
