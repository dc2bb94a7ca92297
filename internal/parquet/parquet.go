package parquet

import (
	"fmt"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
)

// ColumnMapping maps the source file's column names to the canonical
// sensor_data schema.
var ColumnMapping = map[string]string{
	"empresa":      "company",
	"setor":        "sector",
	"energia_kwh":  "energy_kwh",
	"agua_m3":      "water_m3",
	"co2_emissoes": "co2_emissions",
}

// rawRow mirrors the Parquet file schema. Sensor exports ship with
// Portuguese column names; the mapping to canonical names happens when rows
// are converted to model.SensorRecord.
type rawRow struct {
	Empresa     string  `parquet:"name=empresa, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Setor       string  `parquet:"name=setor, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	EnergiaKWh  float64 `parquet:"name=energia_kwh, type=DOUBLE"`
	AguaM3      float64 `parquet:"name=agua_m3, type=DOUBLE"`
	CO2Emissoes float64 `parquet:"name=co2_emissoes, type=DOUBLE"`
}

const readBatchSize = 1024

// parallelism for the underlying column readers/writers
const concurrency = 4

func (r rawRow) toRecord() model.SensorRecord {
	return model.SensorRecord{
		Company:      r.Empresa,
		Sector:       r.Setor,
		EnergyKWh:    r.EnergiaKWh,
		WaterM3:      r.AguaM3,
		CO2Emissions: r.CO2Emissoes,
	}
}

func fromRecord(rec model.SensorRecord) rawRow {
	return rawRow{
		Empresa:     rec.Company,
		Setor:       rec.Sector,
		EnergiaKWh:  rec.EnergyKWh,
		AguaM3:      rec.WaterM3,
		CO2Emissoes: rec.CO2Emissions,
	}
}

// ReadFile reads a sensor Parquet file and returns its rows with canonical
// column names applied.
func ReadFile(path string) ([]model.SensorRecord, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(rawRow), concurrency)
	if err != nil {
		return nil, fmt.Errorf("read parquet schema %s: %w", path, err)
	}
	defer pr.ReadStop()

	if err := checkSchema(pr); err != nil {
		return nil, err
	}

	total := int(pr.GetNumRows())
	records := make([]model.SensorRecord, 0, total)
	for read := 0; read < total; {
		n := readBatchSize
		if remaining := total - read; remaining < n {
			n = remaining
		}
		rows := make([]rawRow, n)
		if err := pr.Read(&rows); err != nil {
			return nil, fmt.Errorf("read parquet rows %s: %w", path, err)
		}
		for _, row := range rows {
			records = append(records, row.toRecord())
		}
		read += n
	}

	return records, nil
}

// ValidateFile checks that the file at path carries exactly the expected
// sensor columns and that every row decodes. Returns the row count.
func ValidateFile(path string) (int, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return 0, fmt.Errorf("open parquet file %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(rawRow), concurrency)
	if err != nil {
		return 0, fmt.Errorf("unreadable parquet schema: %w", err)
	}
	defer pr.ReadStop()

	if err := checkSchema(pr); err != nil {
		return 0, err
	}

	total := int(pr.GetNumRows())
	for read := 0; read < total; {
		n := readBatchSize
		if remaining := total - read; remaining < n {
			n = remaining
		}
		rows := make([]rawRow, n)
		if err := pr.Read(&rows); err != nil {
			return 0, fmt.Errorf("row %d does not match the sensor schema: %w", read, err)
		}
		read += n
	}

	return total, nil
}

// checkSchema verifies the file's leaf columns against the source column
// set. Pandas-style index columns (__index_level_0__ and friends) are
// tolerated and ignored.
func checkSchema(pr *reader.ParquetReader) error {
	if pr.Footer == nil || len(pr.Footer.Schema) == 0 {
		return fmt.Errorf("parquet file has no schema")
	}

	seen := map[string]bool{}
	for _, el := range pr.Footer.Schema[1:] {
		name := strings.ToLower(el.Name)
		if strings.HasPrefix(name, "__") {
			continue
		}
		if _, ok := ColumnMapping[name]; !ok {
			return fmt.Errorf("unexpected column %q", el.Name)
		}
		seen[name] = true
	}

	for source := range ColumnMapping {
		if !seen[source] {
			return fmt.Errorf("missing column %q", source)
		}
	}
	return nil
}

// WriteFile writes records to a Parquet file using the source column names.
// Used by tests and the sample-data generator.
func WriteFile(path string, records []model.SensorRecord) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file %s: %w", path, err)
	}

	pw, err := writer.NewParquetWriter(fw, new(rawRow), concurrency)
	if err != nil {
		fw.Close()
		return fmt.Errorf("create parquet writer: %w", err)
	}

	for _, rec := range records {
		if err := pw.Write(fromRecord(rec)); err != nil {
			fw.Close()
			return fmt.Errorf("write parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	return fw.Close()
}
