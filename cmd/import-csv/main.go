package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"wbdata/internal/countries"
	"wbdata/internal/export"
	"wbdata/internal/indicators"
	"wbdata/pkg/database"
	"wbdata/pkg/logging"
	"wbdata/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $WBDATA_CONFIG)")
		countryIn  = flag.String("countries", "data/countries.csv", "input CSV path for the country directory (empty to skip)")
		recordsIn  = flag.String("records", "data/indicators_data.csv", "input CSV path for indicator records (empty to skip)")
	)
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Must(cfg.Log).Named("import-csv")
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(cfg.Database)
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	if *countryIn != "" {
		f, err := os.Open(*countryIn)
		if err != nil {
			logger.Fatal("open countries csv failed", zap.Error(err))
		}
		cs, err := export.ReadCountries(f)
		f.Close()
		if err != nil {
			logger.Fatal("read countries csv failed", zap.String("path", *countryIn), zap.Error(err))
		}
		n, err := countries.NewRepo(db).Save(ctx, cs)
		if err != nil {
			logger.Fatal("save countries failed", zap.Error(err))
		}
		logger.Info("countries imported", zap.String("path", *countryIn), zap.Int("countries", n))
	}

	if *recordsIn != "" {
		f, err := os.Open(*recordsIn)
		if err != nil {
			logger.Fatal("open records csv failed", zap.Error(err))
		}
		recs, err := export.ReadRecords(f)
		f.Close()
		if err != nil {
			logger.Fatal("read records csv failed", zap.String("path", *recordsIn), zap.Error(err))
		}
		n, err := indicators.NewRepo(db).Upsert(ctx, recs)
		if err != nil {
			logger.Fatal("save records failed", zap.Error(err))
		}
		logger.Info("records imported", zap.String("path", *recordsIn), zap.Int("records", n))
	}
}
