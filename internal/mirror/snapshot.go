// Package mirror keeps an offline copy of the store that can be served in the
// World Bank API response shape, so ingestion can run without network access.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wbdata/pkg/models"
)

type Snapshot struct {
	ExportedAt time.Time                `json:"exported_at"`
	Countries  []models.Country         `json:"countries"`
	Records    []models.IndicatorRecord `json:"records"`
}

type CountryLister interface {
	All(ctx context.Context) ([]models.Country, error)
}

type RecordFinder interface {
	Find(ctx context.Context, f models.RecordFilter) ([]models.IndicatorRecord, error)
}

// Build reads the whole store into a snapshot.
func Build(ctx context.Context, countries CountryLister, records RecordFinder) (*Snapshot, error) {
	cs, err := countries.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	rs, err := records.Find(ctx, models.RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return &Snapshot{
		ExportedAt: time.Now().UTC(),
		Countries:  cs,
		Records:    rs,
	}, nil
}

func WriteFile(path string, s *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func LoadFile(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("snapshot %s is not valid JSON: %w", path, err)
	}
	return &s, nil
}
