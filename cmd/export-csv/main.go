package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"wbdata/internal/countries"
	"wbdata/internal/export"
	"wbdata/internal/indicators"
	"wbdata/pkg/database"
	"wbdata/pkg/logging"
	"wbdata/pkg/models"
	"wbdata/pkg/utils"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML config file (default $WBDATA_CONFIG)")
		countryOut  = flag.String("countries", "data/countries.csv", "output CSV path for the country directory")
		recordsOut  = flag.String("records", "data/indicators_data.csv", "output CSV path for indicator records")
		indicator   = flag.String("indicator", "", "only export this indicator")
		countryCode = flag.String("country", "", "only export this country")
	)
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Must(cfg.Log).Named("export-csv")
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(cfg.Database)
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	cs, err := countries.NewRepo(db).All(ctx)
	if err != nil {
		logger.Fatal("load countries failed", zap.Error(err))
	}
	if err := writeFile(*countryOut, func(f *os.File) error { return export.WriteCountries(f, cs) }); err != nil {
		logger.Fatal("export countries failed", zap.Error(err))
	}

	recs, err := indicators.NewRepo(db).Find(ctx, models.RecordFilter{Country: *countryCode, Indicator: *indicator})
	if err != nil {
		logger.Fatal("load records failed", zap.Error(err))
	}
	if err := writeFile(*recordsOut, func(f *os.File) error { return export.WriteRecords(f, recs) }); err != nil {
		logger.Fatal("export records failed", zap.Error(err))
	}

	logger.Info("export finished",
		zap.Int("countries", len(cs)), zap.String("countries_path", *countryOut),
		zap.Int("records", len(recs)), zap.String("records_path", *recordsOut))
}

func writeFile(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
