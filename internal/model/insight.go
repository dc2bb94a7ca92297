package model

// SectorInsight is the materialized per-sector mean of the raw metrics.
// Recomputed from sensor_data whenever the loader runs.
type SectorInsight struct {
	Sector          string  `db:"sector" json:"sector"`
	AvgEnergyKWh    float64 `db:"avg_energy_kwh" json:"avg_energy_kwh"`
	AvgWaterM3      float64 `db:"avg_water_m3" json:"avg_water_m3"`
	AvgCO2Emissions float64 `db:"avg_co2_emissions" json:"avg_co2_emissions"`
}
