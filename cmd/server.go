package cmd

import (
	"github.com/Abhi-2104/Auralis/server"

	"github.com/spf13/cobra"
)

var serverWithIngest bool

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Auralis HTTP API",
	Long:  "Run the catalog, streaming and playlist HTTP API. With --ingest the upload-notification consumer runs in the same process.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(serverWithIngest)
	},
}

func init() {
	serverCmd.Flags().BoolVar(&serverWithIngest, "ingest", false, "also consume upload notifications")
	rootCmd.AddCommand(serverCmd)
}
