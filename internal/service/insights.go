package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	apperrors "github.com/BMSihlas/dataops-greenflow-sage/internal/errors"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/repository"
)

// InsightService recomputes the per-sector mean metrics from the raw table.
// Every refresh is a full recompute; the insights table is a materialized
// view of sensor_data with no lifecycle of its own.
type InsightService struct {
	sensorRepo  repository.SensorRepository
	insightRepo repository.InsightRepository
}

func NewInsightService(sensorRepo repository.SensorRepository, insightRepo repository.InsightRepository) *InsightService {
	return &InsightService{sensorRepo: sensorRepo, insightRepo: insightRepo}
}

// ComputeInsights groups records by sector and averages the three metrics.
// Output is sorted by sector name.
func ComputeInsights(records []model.SensorRecord) []model.SectorInsight {
	type accumulator struct {
		energy, water, co2 float64
		count              int
	}

	bySector := map[string]*accumulator{}
	for _, rec := range records {
		acc, ok := bySector[rec.Sector]
		if !ok {
			acc = &accumulator{}
			bySector[rec.Sector] = acc
		}
		acc.energy += rec.EnergyKWh
		acc.water += rec.WaterM3
		acc.co2 += rec.CO2Emissions
		acc.count++
	}

	insights := make([]model.SectorInsight, 0, len(bySector))
	for sector, acc := range bySector {
		n := float64(acc.count)
		insights = append(insights, model.SectorInsight{
			Sector:          sector,
			AvgEnergyKWh:    acc.energy / n,
			AvgWaterM3:      acc.water / n,
			AvgCO2Emissions: acc.co2 / n,
		})
	}

	sort.Slice(insights, func(i, j int) bool {
		return insights[i].Sector < insights[j].Sector
	})
	return insights
}

// Refresh recomputes the insights table from the full raw table. An empty
// raw table is a soft no-op: the insights table is left untouched.
func (s *InsightService) Refresh(ctx context.Context) error {
	records, err := s.sensorRepo.FindAll(ctx)
	if err != nil {
		return apperrors.Database(err)
	}

	if len(records) == 0 {
		log.Warn().Msg("no data found in sensor_data table, insights table will not be updated")
		return nil
	}

	insights := ComputeInsights(records)
	if err := s.insightRepo.ReplaceAll(ctx, insights); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Int("sectors", len(insights)).Msg("insights recomputed")
	return nil
}
