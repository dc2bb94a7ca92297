package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/config"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/database"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/handler"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/jobs"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/middleware"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/redis"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/repository"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("APP_ENV") == "production"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}

	sensorRepo := repository.NewSensorRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	userRepo := repository.NewUserRepository(db.DB)

	authService := service.NewAuthService(userRepo, cfg.AuthSecretKey, cfg.TokenTTL())
	loaderService := service.NewLoaderService(sensorRepo, cfg.DataDir)
	insightService := service.NewInsightService(sensorRepo, insightRepo)
	catalogService := service.NewCatalogService(sensorRepo, insightRepo)
	uploadService := service.NewUploadService(cfg.DataDir)

	var userRateLimit func(http.Handler) http.Handler
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected, using distributed rate limiting")

		userRateLimit = middleware.NewRedisRateLimitMiddleware(
			redisClient.Client, config.DefaultRateLimitPerMin,
		).Handler
	} else {
		userRateLimit = middleware.NewUserRateLimitMiddleware(config.DefaultRateLimitPerMin).Handler
	}

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(authService),
		Catalog:        handler.NewCatalogHandler(catalogService),
		Admin:          handler.NewAdminHandler(loaderService, insightService, uploadService),
		TokenValidator: authService,
		APISecretKey:   cfg.APISecretKey,
		UserRateLimit:  userRateLimit,
	})

	cleanupJob := jobs.NewCleanupJob(
		cfg.DataDir, service.TempSuffix, config.UploadTempMaxAge, config.CleanupJobInterval,
	)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
