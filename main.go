package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/user-meets/api"
	"github.com/raushankrgupta/user-meets/cache"
	"github.com/raushankrgupta/user-meets/config"
	"github.com/raushankrgupta/user-meets/meets"
	"github.com/raushankrgupta/user-meets/store"
	"github.com/raushankrgupta/user-meets/utils"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongo, err := utils.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongo.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("MongoDB disconnect failed")
		}
	}()

	users := store.NewUserStore(mongo)
	seen := store.NewSeenStore(mongo)
	if err := seen.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create seen indexes")
	}

	var signer meets.URLSigner
	presigner, err := utils.NewPresigner(ctx, cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize S3 presigner")
	}
	signer = presigner

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			// The cache is an optimisation; run without it.
			log.Warn().Err(err).Msg("Redis unavailable, signing photo URLs without cache")
		} else {
			defer rdb.Close()
			signer = cache.NewSignedURLCache(rdb, presigner)
		}
	}

	svc := meets.NewService(users, seen, meets.NewEnricher(signer, cfg.PhotoURLTTL))
	router := api.NewRouter(api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		RateLimit:      cfg.RateLimit,
		RequestTimeout: cfg.RequestTimeout,
	}, api.NewMeetsHandler(svc))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("User Meets Service is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}
