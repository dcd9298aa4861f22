package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"wbdata/pkg/database"
	"wbdata/pkg/logging"
)

// Config is shared by every command. Values come from an optional YAML file
// (WBDATA_CONFIG or the -config flag) and environment variables; a .env file in
// the working directory is loaded into the environment first.
type Config struct {
	Log      logging.Config  `yaml:"log"`
	Server   ServerConfig    `yaml:"server"`
	Database database.Config `yaml:"database"`
	Sources  SourcesConfig   `yaml:"sources"`
	Ingest   IngestConfig    `yaml:"ingest"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"WBDATA_HTTP_ADDR" env-default:"127.0.0.1:8000"`
}

type SourcesConfig struct {
	CountryDirectoryURL string        `yaml:"country_directory_url" env:"WBDATA_COUNTRY_DIRECTORY_URL" env-default:"https://data.worldbank.org/country"`
	APIBaseURL          string        `yaml:"api_base_url" env:"WBDATA_API_BASE_URL" env-default:"https://api.worldbank.org"`
	RequestTimeout      time.Duration `yaml:"request_timeout" env:"WBDATA_REQUEST_TIMEOUT" env-default:"10s"`
	PerPage             int           `yaml:"per_page" env:"WBDATA_PER_PAGE" env-default:"100"`
	MaxPages            int           `yaml:"max_pages" env:"WBDATA_MAX_PAGES" env-default:"20"`
}

type IngestConfig struct {
	// Workers bounds concurrent (country, indicator) fetches. 1 keeps the
	// fetches strictly sequential.
	Workers int `yaml:"workers" env:"WBDATA_WORKERS" env-default:"1"`
	// Indicators overrides the built-in catalog order when set.
	Indicators []string `yaml:"indicators" env:"WBDATA_INDICATORS" env-separator:","`
}

func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("WBDATA_CONFIG")
	}

	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("ingest.workers must be at least 1, got %d", c.Ingest.Workers)
	}
	if c.Sources.PerPage < 1 {
		return fmt.Errorf("sources.per_page must be at least 1, got %d", c.Sources.PerPage)
	}
	if c.Sources.MaxPages < 1 {
		return fmt.Errorf("sources.max_pages must be at least 1, got %d", c.Sources.MaxPages)
	}
	if c.Sources.RequestTimeout <= 0 {
		return fmt.Errorf("sources.request_timeout must be positive")
	}
	return nil
}
