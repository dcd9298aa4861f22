package main

import (
	"flag"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wbdata/internal/mirror"
	"wbdata/pkg/logging"
	"wbdata/pkg/utils"
)

// Serves data/mirror.json as a World Bank v2 API lookalike. Point
// WBDATA_API_BASE_URL at it to ingest offline.
func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (default $WBDATA_CONFIG)")
		dataPath   = flag.String("data", "data/mirror.json", "snapshot written by export-mirror")
		addr       = flag.String("addr", "127.0.0.1:9000", "listen address")
	)
	flag.Parse()

	cfg, err := utils.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Must(cfg.Log).Named("mirror-server")
	defer logger.Sync()

	snap, err := mirror.LoadFile(*dataPath)
	if err != nil {
		logger.Fatal("load snapshot failed", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	mirror.NewServer(snap).RegisterRoutes(router)

	logger.Info("mirror-server listening",
		zap.String("addr", *addr),
		zap.Int("countries", len(snap.Countries)),
		zap.Int("records", len(snap.Records)))
	if err := router.Run(*addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
