package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WBDATA_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "https://api.worldbank.org", cfg.Sources.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.Sources.RequestTimeout)
	assert.Equal(t, 1, cfg.Ingest.Workers)
	assert.Empty(t, cfg.Ingest.Indicators)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
server:
  addr: ":9000"
database:
  driver: "sqlite3"
  dsn: "/tmp/wb.db"
ingest:
  workers: 2
  indicators: ["SP.POP.TOTL"]
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	t.Setenv("WBDATA_WORKERS", "4")
	t.Setenv("WBDATA_INDICATORS", "NY.GDP.MKTP.CD,SP.POP.GROW")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/wb.db", cfg.Database.DSN)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, []string{"NY.GDP.MKTP.CD", "SP.POP.GROW"}, cfg.Ingest.Indicators)
}

func TestLoad_RejectsZeroWorkers(t *testing.T) {
	t.Setenv("WBDATA_CONFIG", "")
	t.Setenv("WBDATA_WORKERS", "0")

	_, err := Load("")
	assert.Error(t, err)
}
