package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Abhi-2104/Auralis/config"
	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Check the object store connection",
	Long:  "Connect to MinIO, make sure the catalog bucket exists and stat an optional object key.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		store, err := storage.NewStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "object store check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("bucket %s is reachable\n", store.Bucket())

		if len(args) > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			info, err := store.Stat(ctx, store.Bucket(), args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "stat %s failed: %v\n", args[0], err)
				os.Exit(1)
			}
			fmt.Printf("%s  %d bytes  %s  %s\n", info.Key, info.Size, info.ContentType, info.LastModified.Format(time.RFC3339))
		}
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
