package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/database"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
)

type InsightRepository interface {
	// ReplaceAll rewrites the insights table in one transaction.
	ReplaceAll(ctx context.Context, insights []model.SectorInsight) error
	FindAll(ctx context.Context) ([]model.SectorInsight, error)
	FindBySector(ctx context.Context, sector string) (*model.SectorInsight, error)
}

type insightRepo struct {
	db *database.DB
}

func NewInsightRepository(db *database.DB) InsightRepository {
	return &insightRepo{db: db}
}

func (r *insightRepo) ReplaceAll(ctx context.Context, insights []model.SectorInsight) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM insights`); err != nil {
			return err
		}
		for _, ins := range insights {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO insights (sector, avg_energy_kwh, avg_water_m3, avg_co2_emissions)
				VALUES ($1, $2, $3, $4)
			`, ins.Sector, ins.AvgEnergyKWh, ins.AvgWaterM3, ins.AvgCO2Emissions)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *insightRepo) FindAll(ctx context.Context) ([]model.SectorInsight, error) {
	insights := []model.SectorInsight{}
	err := r.db.SelectContext(ctx, &insights, `
		SELECT * FROM insights ORDER BY sector
	`)
	if err != nil {
		return nil, err
	}
	return insights, nil
}

func (r *insightRepo) FindBySector(ctx context.Context, sector string) (*model.SectorInsight, error) {
	var insight model.SectorInsight
	err := r.db.GetContext(ctx, &insight, `
		SELECT * FROM insights WHERE sector = $1
	`, sector)
	return HandleNotFound(&insight, err)
}
