package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/config"
	apperrors "github.com/BMSihlas/dataops-greenflow-sage/internal/errors"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/parquet"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/repository"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/util"
)

// LoaderService ingests a Parquet sensor file into the raw table. Each run
// replaces sensor_data wholesale; there is no append or merge. Runs must be
// serialized by the caller.
type LoaderService struct {
	sensorRepo repository.SensorRepository
	dataDir    string
}

func NewLoaderService(sensorRepo repository.SensorRepository, dataDir string) *LoaderService {
	return &LoaderService{sensorRepo: sensorRepo, dataDir: dataDir}
}

// Resolve maps an optional upload name to a file path under the data
// directory, falling back to the bundled default file.
func (s *LoaderService) Resolve(fileName string) (string, error) {
	if fileName != "" {
		if !util.IsValidUploadName(fileName) {
			return "", apperrors.InvalidInput("file_name", "must be a bare .parquet file name")
		}
		path := filepath.Join(s.dataDir, fileName)
		if _, err := os.Stat(path); err != nil {
			return "", apperrors.DataFile(fmt.Sprintf("Parquet file not found at %s", path), err)
		}
		return path, nil
	}

	path := filepath.Join(s.dataDir, config.DefaultDataFile)
	if _, err := os.Stat(path); err != nil {
		return "", apperrors.DataFile(fmt.Sprintf("Parquet file not found at %s", path), err)
	}
	return path, nil
}

// Run loads the resolved file into sensor_data and returns the row count.
func (s *LoaderService) Run(ctx context.Context, fileName string) (int, error) {
	path, err := s.Resolve(fileName)
	if err != nil {
		return 0, err
	}

	log.Info().Str("file", path).Msg("loading sensor data")

	records, err := parquet.ReadFile(path)
	if err != nil {
		return 0, apperrors.DataFile(fmt.Sprintf("Failed to read Parquet file %s", path), err)
	}

	if err := s.sensorRepo.ReplaceAll(ctx, records); err != nil {
		return 0, apperrors.Database(err)
	}

	log.Info().Int("rows", len(records)).Msg("sensor data loaded")
	return len(records), nil
}
