package cmd

import (
	"fmt"
	"os"

	"github.com/Abhi-2104/Auralis/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "auralis",
	Short: "Auralis is a music streaming catalog service.",
	Run: func(cmd *cobra.Command, args []string) {
		// Bare invocation runs the full service: HTTP API plus ingest.
		server.Start(true)
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
