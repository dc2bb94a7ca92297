package database

import (
	"context"
	"fmt"
)

// Table names owned by this service. sensor_data and insights are rewritten
// wholesale by the loader; users is append/update-only.
const (
	TableSensorData = "sensor_data"
	TableInsights   = "insights"
	TableUsers      = "users"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sensor_data (
		id            BIGSERIAL PRIMARY KEY,
		company       TEXT NOT NULL,
		sector        TEXT NOT NULL,
		energy_kwh    DOUBLE PRECISION NOT NULL,
		water_m3      DOUBLE PRECISION NOT NULL,
		co2_emissions DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS insights (
		sector            TEXT PRIMARY KEY,
		avg_energy_kwh    DOUBLE PRECISION NOT NULL,
		avg_water_m3      DOUBLE PRECISION NOT NULL,
		avg_co2_emissions DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    BIGINT NOT NULL,
		last_login    BIGINT NOT NULL
	)`,
}

// EnsureSchema creates the tables this service owns if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
