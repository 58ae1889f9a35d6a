// Package cmd contains the ledger client commands.
package cmd

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	nodeURL string
	timeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:5000", "Url of the node.")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Time to wait for the node to respond.")
}

var rootCmd = &cobra.Command{
	Use:           "ledger",
	Short:         "Client for a proof of work ledger node",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command selected by the command line arguments.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
