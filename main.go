package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blackmarket-backend/config"
	"blackmarket-backend/database"
	"blackmarket-backend/firebase"
	"blackmarket-backend/middleware"
	"blackmarket-backend/routes"
	"blackmarket-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	config.LoadEnv()
	setupLogger(config.GetEnv("ENV", "development"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("environment validation failed")
	}
	log.Info().Str("env", cfg.Env).Bool("debug", cfg.Debug).Msg("starting black market api")

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Image storage is optional; without a bucket uploads are refused.
	var storage firebase.StorageClient
	if cfg.FirebaseBucket != "" {
		app, err := firebase.Init(ctx, cfg.GoogleCredentials, cfg.FirebaseBucket)
		if err != nil {
			log.Warn().Err(err).Msg("firebase initialization failed - image uploads disabled")
		} else {
			storage = firebase.NewStorageClient(app, cfg.FirebaseBucket)
			log.Info().Str("bucket", cfg.FirebaseBucket).Msg("firebase storage ready")
		}
	}

	limiter, redisClient := setupRateLimiter(ctx, cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	if !cfg.Debug && cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware())

	// Limit multipart form memory to 10MB
	r.MaxMultipartMemory = 10 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RateLimit(limiter))

	verifier := utils.NewTokenVerifier(cfg.ClerkSecretKey, cfg.Debug)
	routes.SetupRoutes(r, db, storage, verifier)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database connection")
		} else {
			log.Info().Msg("database connection closed")
		}
	}

	log.Info().Msg("server exited")
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// setupRateLimiter uses Redis when REDIS_URL is set and reachable, so every
// instance shares one budget per client. Otherwise each instance keeps its
// own in-memory buckets.
func setupRateLimiter(ctx context.Context, cfg *config.Config) (middleware.Limiter, *redis.Client) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("invalid REDIS_URL - using in-memory rate limiter")
		} else {
			client := redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := client.Ping(pingCtx).Err()
			cancel()
			if err == nil {
				log.Info().Msg("redis connected - using shared rate limiter")
				return middleware.NewRedisRateLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window), client
			}
			log.Warn().Err(err).Msg("redis unreachable - using in-memory rate limiter")
			client.Close()
		}
	}
	return middleware.NewRateLimiter(ctx, cfg.RateLimit.Requests, cfg.RateLimit.Window), nil
}
