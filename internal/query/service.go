// Package query answers the read-only lookups served over HTTP.
package query

import (
	"context"
	"errors"
	"fmt"

	"wbdata/internal/catalog"
	"wbdata/pkg/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrUnknownCountry is returned when a country code is not in the directory.
	ErrUnknownCountry = fmt.Errorf("unknown country: %w", ErrNotFound)
	// ErrNoData is returned when the filters leave no records.
	ErrNoData = fmt.Errorf("no data: %w", ErrNotFound)
)

type CountryStore interface {
	List(ctx context.Context) ([]models.CountrySummary, error)
	Exists(ctx context.Context, code string) (bool, error)
}

type RecordStore interface {
	ListDistinct(ctx context.Context) ([]models.IndicatorSummary, error)
	Find(ctx context.Context, f models.RecordFilter) ([]models.IndicatorRecord, error)
}

type Service struct {
	Countries CountryStore
	Records   RecordStore
}

func NewService(countries CountryStore, records RecordStore) *Service {
	return &Service{Countries: countries, Records: records}
}

func (s *Service) ListCountries(ctx context.Context) ([]models.CountrySummary, error) {
	return s.Countries.List(ctx)
}

func (s *Service) ListIndicators(ctx context.Context) ([]models.IndicatorSummary, error) {
	return s.Records.ListDistinct(ctx)
}

// GetCountrySeries returns the observations of one country, optionally
// narrowed to one indicator and/or year. The country must be in the directory
// whatever the filters are.
func (s *Service) GetCountrySeries(ctx context.Context, code, indicator string, year *int) ([]models.CountryDataPoint, error) {
	ok, err := s.Countries.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCountry, code)
	}

	recs, err := s.Records.Find(ctx, models.RecordFilter{Country: code, Indicator: indicator, Year: year})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNoData
	}

	out := make([]models.CountryDataPoint, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.CountryDataPoint{
			Indicator:            r.IndicatorCode,
			IndicatorDescription: r.Description,
			Year:                 r.Year,
			Value:                r.Value,
		})
	}
	return out, nil
}

// GetIndicatorSeries returns one indicator across countries. The description
// is taken from the first matching record.
func (s *Service) GetIndicatorSeries(ctx context.Context, indicator string, year *int) (string, []models.IndicatorDataPoint, error) {
	recs, err := s.Records.Find(ctx, models.RecordFilter{Indicator: indicator, Year: year})
	if err != nil {
		return "", nil, err
	}
	if len(recs) == 0 {
		return catalog.Placeholder, nil, ErrNoData
	}

	out := make([]models.IndicatorDataPoint, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.IndicatorDataPoint{
			Country: r.CountryCode,
			Year:    r.Year,
			Value:   r.Value,
		})
	}
	return recs[0].Description, out, nil
}
