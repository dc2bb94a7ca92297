package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/database"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
)

// sensorColumns are the canonical data columns of sensor_data, in COPY order.
var sensorColumns = []string{"company", "sector", "energy_kwh", "water_m3", "co2_emissions"}

// companyOrderColumns whitelists the order_by values accepted by FindPage.
var companyOrderColumns = map[string]string{
	"company":       "company",
	"sector":        "sector",
	"energy_kwh":    "energy_kwh",
	"water_m3":      "water_m3",
	"co2_emissions": "co2_emissions",
}

// IsOrderColumn reports whether name is an accepted order_by column for the
// companies listing.
func IsOrderColumn(name string) bool {
	_, ok := companyOrderColumns[name]
	return ok
}

// PageQuery describes one page of the companies listing. OrderBy must be one
// of the whitelisted columns; Descending flips the sort direction.
type PageQuery struct {
	Sector     string
	OrderBy    string
	Descending bool
	Limit      int
	Offset     int
}

type SensorRepository interface {
	// ReplaceAll swaps the entire sensor_data table for the given records in
	// a single transaction, so readers never observe an empty table.
	ReplaceAll(ctx context.Context, records []model.SensorRecord) error
	FindRecent(ctx context.Context, limit int, company, sector string) ([]model.SensorRecord, error)
	FindPage(ctx context.Context, q PageQuery) ([]model.CompanyRow, error)
	Count(ctx context.Context, sector string) (int, error)
	DistinctSectors(ctx context.Context) ([]string, error)
	FindAll(ctx context.Context) ([]model.SensorRecord, error)
}

type sensorRepo struct {
	db *database.DB
}

func NewSensorRepository(db *database.DB) SensorRepository {
	return &sensorRepo{db: db}
}

func (r *sensorRepo) ReplaceAll(ctx context.Context, records []model.SensorRecord) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		stmts := []string{
			`DROP TABLE IF EXISTS sensor_data_staging`,
			`CREATE TABLE sensor_data_staging (
				id            BIGSERIAL PRIMARY KEY,
				company       TEXT NOT NULL,
				sector        TEXT NOT NULL,
				energy_kwh    DOUBLE PRECISION NOT NULL,
				water_m3      DOUBLE PRECISION NOT NULL,
				co2_emissions DOUBLE PRECISION NOT NULL
			)`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("prepare staging table: %w", err)
			}
		}

		copyStmt, err := tx.PrepareContext(ctx, pq.CopyIn("sensor_data_staging", sensorColumns...))
		if err != nil {
			return fmt.Errorf("prepare bulk copy: %w", err)
		}
		for _, rec := range records {
			if _, err := copyStmt.ExecContext(ctx, rec.Company, rec.Sector, rec.EnergyKWh, rec.WaterM3, rec.CO2Emissions); err != nil {
				copyStmt.Close()
				return fmt.Errorf("bulk copy row: %w", err)
			}
		}
		if _, err := copyStmt.ExecContext(ctx); err != nil {
			copyStmt.Close()
			return fmt.Errorf("flush bulk copy: %w", err)
		}
		if err := copyStmt.Close(); err != nil {
			return fmt.Errorf("close bulk copy: %w", err)
		}

		// Swap staging into place. The old table's sequence and index go
		// down with it, freeing the canonical names for the renames.
		swap := []string{
			`DROP TABLE IF EXISTS sensor_data`,
			`ALTER TABLE sensor_data_staging RENAME TO sensor_data`,
			`ALTER SEQUENCE sensor_data_staging_id_seq RENAME TO sensor_data_id_seq`,
			`ALTER INDEX sensor_data_staging_pkey RENAME TO sensor_data_pkey`,
		}
		for _, stmt := range swap {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("swap staging table: %w", err)
			}
		}
		return nil
	})
}

func (r *sensorRepo) FindRecent(ctx context.Context, limit int, company, sector string) ([]model.SensorRecord, error) {
	query := `SELECT * FROM sensor_data`
	conds := []string{}
	args := []interface{}{}
	if company != "" {
		args = append(args, company)
		conds = append(conds, fmt.Sprintf("company = $%d", len(args)))
	}
	if sector != "" {
		args = append(args, sector)
		conds = append(conds, fmt.Sprintf("sector = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))

	records := []model.SensorRecord{}
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sensorRepo) FindPage(ctx context.Context, q PageQuery) ([]model.CompanyRow, error) {
	orderCol, ok := companyOrderColumns[q.OrderBy]
	if !ok {
		return nil, fmt.Errorf("unknown order column %q", q.OrderBy)
	}
	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}

	query := `
		SELECT company, sector, energy_kwh, water_m3, co2_emissions
		FROM sensor_data`
	args := []interface{}{}
	if q.Sector != "" {
		args = append(args, q.Sector)
		query += fmt.Sprintf(" WHERE sector = $%d", len(args))
	}
	args = append(args, q.Limit, q.Offset)
	query += fmt.Sprintf(" ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d", orderCol, dir, len(args)-1, len(args))

	rows := []model.CompanyRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].RowNumber = int64(q.Offset + i + 1)
	}
	return rows, nil
}

func (r *sensorRepo) Count(ctx context.Context, sector string) (int, error) {
	var count int
	if sector != "" {
		err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sensor_data WHERE sector = $1`, sector)
		return count, err
	}
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sensor_data`)
	return count, err
}

func (r *sensorRepo) DistinctSectors(ctx context.Context) ([]string, error) {
	sectors := []string{}
	err := r.db.SelectContext(ctx, &sectors, `
		SELECT DISTINCT sector FROM sensor_data ORDER BY sector
	`)
	if err != nil {
		return nil, err
	}
	return sectors, nil
}

func (r *sensorRepo) FindAll(ctx context.Context) ([]model.SensorRecord, error) {
	records := []model.SensorRecord{}
	err := r.db.SelectContext(ctx, &records, `SELECT * FROM sensor_data ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return records, nil
}
