package model

// SensorRecord is one sensor reading as stored in the sensor_data table.
// The table is replaced wholesale on every load; id exists only to give the
// rows a stable recency order.
type SensorRecord struct {
	ID           int64   `db:"id" json:"-"`
	Company      string  `db:"company" json:"company"`
	Sector       string  `db:"sector" json:"sector"`
	EnergyKWh    float64 `db:"energy_kwh" json:"energy_kwh"`
	WaterM3      float64 `db:"water_m3" json:"water_m3"`
	CO2Emissions float64 `db:"co2_emissions" json:"co2_emissions"`
}

// CompanyRow is a sensor record decorated with the synthetic 1-based row
// number used by the paginated companies listing.
type CompanyRow struct {
	RowNumber    int64   `db:"row_number" json:"row_number"`
	Company      string  `db:"company" json:"company"`
	Sector       string  `db:"sector" json:"sector"`
	EnergyKWh    float64 `db:"energy_kwh" json:"energy_kwh"`
	WaterM3      float64 `db:"water_m3" json:"water_m3"`
	CO2Emissions float64 `db:"co2_emissions" json:"co2_emissions"`
}
