package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"wbdata/internal/countries"
	"wbdata/internal/indicators"
	"wbdata/internal/mirror"
	"wbdata/pkg/database"
	"wbdata/pkg/logging"
	"wbdata/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $WBDATA_CONFIG)")
		outPath    = flag.String("out", "data/mirror.json", "output JSON path")
	)
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Must(cfg.Log).Named("export-mirror")
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := database.MustOpen(cfg.Database)
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	snap, err := mirror.Build(ctx, countries.NewRepo(db), indicators.NewRepo(db))
	if err != nil {
		logger.Fatal("build snapshot failed", zap.Error(err))
	}
	if err := mirror.WriteFile(*outPath, snap); err != nil {
		logger.Fatal("write snapshot failed", zap.Error(err))
	}

	logger.Info("mirror exported",
		zap.String("path", *outPath),
		zap.Int("countries", len(snap.Countries)),
		zap.Int("records", len(snap.Records)))
}
