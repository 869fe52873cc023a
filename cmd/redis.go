package cmd

import (
	"fmt"
	"os"

	"github.com/Abhi-2104/Auralis/config"
	"github.com/Abhi-2104/Auralis/db"
	"github.com/Abhi-2104/Auralis/logger"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis connection",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if err := db.ConnectRedis(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "redis check failed: %v\n", err)
			os.Exit(1)
		}
		defer db.CloseRedis()

		if err := db.TestRedis(); err != nil {
			fmt.Fprintf(os.Stderr, "redis round trip failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("redis is reachable")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
