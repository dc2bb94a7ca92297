package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/config"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/database"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/repository"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/service"
)

func main() {
	fileName := flag.String("file", "", "parquet file name under DATA_DIR (default data file when empty)")
	insightsOnly := flag.Bool("insights-only", false, "skip the load and recompute insights from the current raw data")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.Connect(cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	pingCtx, cancel := context.WithTimeout(ctx, config.DBPingTimeout)
	if err := db.Ping(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema")
	}

	sensorRepo := repository.NewSensorRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	if !*insightsOnly {
		loader := service.NewLoaderService(sensorRepo, cfg.DataDir)
		rows, err := loader.Run(ctx, *fileName)
		if err != nil {
			log.Fatal().Err(err).Msg("data load failed")
		}
		log.Info().Int("rows", rows).Msg("data load complete")
	}

	insights := service.NewInsightService(sensorRepo, insightRepo)
	if err := insights.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("insights refresh failed")
	}
	log.Info().Msg("insights refreshed")
}
