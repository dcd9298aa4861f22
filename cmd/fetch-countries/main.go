package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"wbdata/internal/countries"
	"wbdata/internal/scraper"
	"wbdata/pkg/database"
	"wbdata/pkg/logging"
	"wbdata/pkg/models"
	"wbdata/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $WBDATA_CONFIG)")
		source     = flag.String("source", "html", "country directory source: html (data.worldbank.org page) or api (v2 country list)")
	)
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Must(cfg.Log).Named("fetch-countries")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src scraper.CountrySource
	switch *source {
	case "html":
		src = scraper.NewHTMLDirectory(cfg.Sources.CountryDirectoryURL, cfg.Sources.RequestTimeout, logger)
	case "api":
		api := scraper.NewWorldBankAPI(cfg.Sources.APIBaseURL, cfg.Sources.RequestTimeout)
		api.PerPage = cfg.Sources.PerPage
		api.MaxPages = cfg.Sources.MaxPages
		src = api
	default:
		logger.Fatal("unknown source", zap.String("source", *source))
	}

	db := database.MustOpen(cfg.Database)
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	list, err := src.FetchCountries(ctx)
	if err != nil {
		logger.Fatal("fetch country directory failed", zap.String("source", src.Name()), zap.Error(err))
	}

	unknown := 0
	for _, c := range list {
		if c.Code == models.UnknownCountryCode {
			unknown++
		}
	}
	if unknown > 0 {
		logger.Warn("some entries have no recognisable code", zap.Int("count", unknown))
	}

	n, err := countries.NewRepo(db).Save(ctx, list)
	if err != nil {
		logger.Fatal("save failed", zap.Error(err))
	}
	logger.Info("country directory stored", zap.String("source", src.Name()), zap.Int("countries", n))
}
