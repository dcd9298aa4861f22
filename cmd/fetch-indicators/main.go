package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"wbdata/internal/catalog"
	"wbdata/internal/countries"
	"wbdata/internal/indicators"
	"wbdata/internal/scraper"
	"wbdata/pkg/database"
	"wbdata/pkg/logging"
	"wbdata/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $WBDATA_CONFIG)")
		only       = flag.String("countries", "", "comma-separated country codes to fetch instead of the whole directory")
		inds       = flag.String("indicators", "", "comma-separated indicator codes (default: configured list or the built-in catalog)")
		workers    = flag.Int("workers", 0, "concurrent fetches (default: ingest.workers)")
	)
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Must(cfg.Log).Named("fetch-indicators")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.MustOpen(cfg.Database)
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	countryRepo := countries.NewRepo(db)
	directory, err := countryRepo.All(ctx)
	if err != nil {
		logger.Fatal("load country directory failed", zap.Error(err))
	}
	codes := scraper.NewCodeMap(directory)

	targets := splitList(*only)
	if len(targets) == 0 {
		if targets, err = countryRepo.Codes(ctx); err != nil {
			logger.Fatal("load country codes failed", zap.Error(err))
		}
	}
	if len(targets) == 0 {
		logger.Warn("no countries to fetch; run fetch-countries first")
		return
	}

	cat := catalog.Default()
	indicatorCodes := splitList(*inds)
	if len(indicatorCodes) == 0 {
		indicatorCodes = cfg.Ingest.Indicators
	}
	if len(indicatorCodes) == 0 {
		indicatorCodes = cat.Codes()
	}

	for _, code := range indicatorCodes {
		if !cat.Has(code) {
			logger.Warn("indicator not in catalog; records get the placeholder description", zap.String("indicator", code))
		}
	}

	api := scraper.NewWorldBankAPI(cfg.Sources.APIBaseURL, cfg.Sources.RequestTimeout)
	api.PerPage = cfg.Sources.PerPage
	api.MaxPages = cfg.Sources.MaxPages

	n := cfg.Ingest.Workers
	if *workers > 0 {
		n = *workers
	}
	ingester := scraper.NewIngester(api, cat, n, logger)

	logger.Info("fetching indicators",
		zap.String("api", api.BaseURL),
		zap.Int("countries", len(targets)),
		zap.Int("indicators", len(indicatorCodes)),
		zap.Int("workers", n))

	records, sum, err := ingester.Collect(ctx, targets, codes, indicatorCodes)
	if err != nil {
		logger.Fatal("ingestion interrupted", zap.Error(err))
	}
	if sum.AllFailed() {
		logger.Fatal("every fetch failed; upstream unreachable?",
			zap.String("api", api.BaseURL),
			zap.Int("pairs", sum.Pairs))
	}
	if sum.Failed > 0 {
		logger.Warn("some pairs failed and were skipped",
			zap.Int("failed", sum.Failed),
			zap.Int("pairs", sum.Pairs))
	}

	written, err := indicators.NewRepo(db).Upsert(ctx, records)
	if err != nil {
		logger.Fatal("save failed", zap.Error(err))
	}
	logger.Info("indicator data stored", zap.Int("records", written))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
