package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abhi-2104/Auralis/config"
	"github.com/Abhi-2104/Auralis/core/auth"
	"github.com/Abhi-2104/Auralis/core/catalog"
	"github.com/Abhi-2104/Auralis/db"
	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/repository"
	"github.com/Abhi-2104/Auralis/storage"

	"github.com/spf13/cobra"
)

var watchDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the upload ingest worker",
	Long: `Consume object-created notifications from the music bucket and create
catalog records for each audio upload. With --watch, also mirror a local
drop folder into the bucket.`,
	Run: func(cmd *cobra.Command, args []string) {
		runIngest()
	},
}

func init() {
	ingestCmd.Flags().StringVar(&watchDir, "watch", "", "local drop folder to upload from")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	auth.SetSecret(cfg.JWTSecret)

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseDB()

	if err := db.MigrateModels(); err != nil {
		logger.Fatal("Failed to migrate database schema", logger.ErrorField(err))
	}

	store, err := storage.NewStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize object store", logger.ErrorField(err))
	}

	songRepo := repository.NewMySQLSongRepository(db.DB)
	extractor := catalog.NewExtractor(store, songRepo, nil, cfg.MusicPrefix)
	ingestor := catalog.NewIngestor(store, extractor, cfg.MusicPrefix)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("Shutting down ingest worker...")
		cancel()
	}()

	if watchDir != "" {
		watcher := catalog.NewWatcher(store, watchDir, cfg.MusicPrefix)
		go func() {
			if err := watcher.Run(ctx); err != nil && err != context.Canceled {
				logger.Error("Drop-folder watcher stopped", logger.ErrorField(err))
			}
		}()
	}

	if err := ingestor.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("Ingest worker stopped", logger.ErrorField(err))
	}
}
