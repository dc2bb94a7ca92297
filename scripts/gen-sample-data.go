package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/config"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/model"
	"github.com/BMSihlas/dataops-greenflow-sage/internal/parquet"
)

var (
	companies = []string{
		"EcoVerde Ltda", "Sustentec SA", "GreenPower Brasil", "AquaPura Corp",
		"BioCiclo Industrias", "SolarMax Energia", "TerraNova Agro", "CleanAir Solutions",
	}
	sectors = []string{
		"Agronegocio", "Energia", "Industria", "Tecnologia", "Transporte",
	}
)

func main() {
	rows := flag.Int("rows", 5000, "number of sample rows to generate")
	dir := flag.String("dir", "data", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	records := make([]model.SensorRecord, *rows)
	for i := range records {
		records[i] = model.SensorRecord{
			Company:      companies[rand.Intn(len(companies))],
			Sector:       sectors[rand.Intn(len(sectors))],
			EnergyKWh:    50 + rand.Float64()*950,
			WaterM3:      5 + rand.Float64()*195,
			CO2Emissions: 10 + rand.Float64()*490,
		}
	}

	path := filepath.Join(*dir, config.DefaultDataFile)
	if err := parquet.WriteFile(path, records); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %d rows to %s\n", len(records), path)
}
