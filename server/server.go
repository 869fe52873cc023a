package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abhi-2104/Auralis/cache"
	"github.com/Abhi-2104/Auralis/config"
	"github.com/Abhi-2104/Auralis/core/auth"
	"github.com/Abhi-2104/Auralis/core/catalog"
	"github.com/Abhi-2104/Auralis/core/events"
	"github.com/Abhi-2104/Auralis/core/streaming"
	"github.com/Abhi-2104/Auralis/db"
	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/repository"
	"github.com/Abhi-2104/Auralis/storage"

	"github.com/gorilla/mux"
)

// Start initializes dependencies, wires the routes and runs the HTTP server
// until interrupted. When withIngest is true, the bucket-notification
// consumer runs alongside the server in the same process.
func Start(withIngest bool) {
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

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	store, err := storage.NewStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize object store", logger.ErrorField(err))
	}

	songRepo := repository.NewMySQLSongRepository(db.DB)
	playlistRepo := repository.NewMySQLPlaylistRepository(db.DB)
	userRepo := repository.NewMySQLUserRepository(db.DB)

	hub := events.NewHub()
	urlCache := cache.NewStreamURLCache(db.RedisClient)
	issuer := streaming.NewIssuer(songRepo, store, urlCache,
		time.Duration(cfg.StreamURLTTL)*time.Second)

	apiHandler := NewAPIHandler(songRepo, playlistRepo, userRepo, issuer, hub, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Auth
	router.HandleFunc("/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// Catalog
	router.HandleFunc("/songs", apiHandler.GetSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id}", apiHandler.GetSongHandler).Methods(http.MethodGet)
	router.HandleFunc("/stream-song/{id}", apiHandler.StreamSongHandler).Methods(http.MethodGet)

	// Playlists
	router.HandleFunc("/playlists", apiHandler.AuthMiddleware(apiHandler.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/playlists", apiHandler.AuthMiddleware(apiHandler.GetPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{id}/songs", apiHandler.AuthMiddleware(apiHandler.AddSongToPlaylistHandler)).Methods(http.MethodPost)

	// Live catalog events
	router.HandleFunc("/ws/events", apiHandler.EventsHandler).Methods(http.MethodGet)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ingestCtx, stopIngest := context.WithCancel(context.Background())
	defer stopIngest()

	if withIngest {
		extractor := catalog.NewExtractor(store, songRepo, hub, cfg.MusicPrefix)
		ingestor := catalog.NewIngestor(store, extractor, cfg.MusicPrefix)
		go func() {
			if err := ingestor.Run(ingestCtx); err != nil && err != context.Canceled {
				logger.Error("Ingest stopped", logger.ErrorField(err))
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")
	stopIngest()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

// corsMiddleware sets the permissive CORS headers the front-end expects.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
