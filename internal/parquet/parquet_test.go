package parquet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
)

func sampleRecords() []model.SensorRecord {
	return []model.SensorRecord{
		{Company: "Acme Energia", Sector: "Energy", EnergyKWh: 10, WaterM3: 30, CO2Emissions: 5},
		{Company: "Verde Aguas", Sector: "Energy", EnergyKWh: 20, WaterM3: 40, CO2Emissions: 5},
		{Company: "EcoTex", Sector: "Textile", EnergyKWh: 7.5, WaterM3: 2.5, CO2Emissions: 1.25},
	}
}

func TestReadFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.parquet")
	require.NoError(t, WriteFile(path, sampleRecords()))

	records, err := ReadFile(path)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, sampleRecords(), records)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.parquet"))
	assert.Error(t, err)
}

func TestValidateFile(t *testing.T) {
	t.Run("accepts a conforming file and reports row count", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ok.parquet")
		require.NoError(t, WriteFile(path, sampleRecords()))

		count, err := ValidateFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("accepts an empty file with the right schema", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.parquet")
		require.NoError(t, WriteFile(path, nil))

		count, err := ValidateFile(path)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("rejects a non-parquet file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bogus.parquet")
		require.NoError(t, os.WriteFile(path, []byte("company,sector\nA,B\n"), 0o644))

		_, err := ValidateFile(path)
		assert.Error(t, err)
	})
}

func TestColumnMapping(t *testing.T) {
	assert.Equal(t, map[string]string{
		"empresa":      "company",
		"setor":        "sector",
		"energia_kwh":  "energy_kwh",
		"agua_m3":      "water_m3",
		"co2_emissoes": "co2_emissions",
	}, ColumnMapping)
}
