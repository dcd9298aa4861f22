package indicators

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbdata/internal/catalog"
	"wbdata/internal/scraper"
	"wbdata/pkg/database/dbtest"
	"wbdata/pkg/models"
)

func rec(country, indicator string, year int, value float64) models.IndicatorRecord {
	return models.IndicatorRecord{
		CountryCode:   country,
		IndicatorCode: indicator,
		Description:   catalog.Default().Describe(indicator),
		Year:          year,
		Value:         value,
		FetchedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func intp(v int) *int { return &v }

func TestUpsertLatestValueWins(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(dbtest.New(t))

	_, err := repo.Upsert(ctx, []models.IndicatorRecord{rec("USA", "SP.POP.TOTL", 2020, 1)})
	require.NoError(t, err)

	later := rec("USA", "SP.POP.TOTL", 2020, 331002651)
	later.FetchedAt = later.FetchedAt.Add(time.Hour)
	n, err := repo.Upsert(ctx, []models.IndicatorRecord{later})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.Find(ctx, models.RecordFilter{Country: "USA"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 331002651.0, got[0].Value)
	assert.Equal(t, models.RecordID("USA", "SP.POP.TOTL", 2020), got[0].ID)
	assert.True(t, later.FetchedAt.Equal(got[0].FetchedAt))
}

func TestUpsertDuplicatesWithinBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(dbtest.New(t))

	_, err := repo.Upsert(ctx, []models.IndicatorRecord{
		rec("USA", "SP.POP.TOTL", 2020, 1),
		rec("USA", "SP.POP.TOTL", 2020, 2),
	})
	require.NoError(t, err)

	got, err := repo.Find(ctx, models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Value)
}

func TestUpsertOverwritesLegacyRandomID(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := NewRepo(db)

	_, err := db.ExecContext(ctx, `INSERT INTO indicators_data
		(id, country, indicator, indicator_description, year, value, retrieved_at)
		VALUES ('9b2d1c9e-legacy', 'USA', 'SP.POP.TOTL', 'old', 2020, 1, '2023-01-01T00:00:00.000000')`)
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, []models.IndicatorRecord{rec("USA", "SP.POP.TOTL", 2020, 5)})
	require.NoError(t, err)

	got, err := repo.Find(ctx, models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.RecordID("USA", "SP.POP.TOTL", 2020), got[0].ID)
	assert.Equal(t, "Population, total", got[0].Description)
}

func TestNullValuesNeverPersisted(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(dbtest.New(t))

	var obs []scraper.Observation
	require.NoError(t, json.Unmarshal([]byte(`[
		{"indicator":{"id":"SP.POP.TOTL"},"country":{"id":"USA"},"date":"2020","value":331002651},
		{"indicator":{"id":"SP.POP.TOTL"},"country":{"id":"USA"},"date":"2021","value":null}
	]`), &obs))

	var records []models.IndicatorRecord
	for _, o := range obs {
		if r, ok := scraper.Normalize(o, scraper.CodeMap{}, catalog.Default(), time.Now()); ok {
			records = append(records, r)
		}
	}
	_, err := repo.Upsert(ctx, records)
	require.NoError(t, err)

	got, err := repo.Find(ctx, models.RecordFilter{Country: "USA", Year: intp(2021)})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.Find(ctx, models.RecordFilter{Country: "USA"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(dbtest.New(t))

	_, err := repo.Upsert(ctx, []models.IndicatorRecord{
		rec("USA", "SP.POP.TOTL", 2020, 331002651),
		rec("USA", "SP.POP.TOTL", 2021, 331893745),
		rec("USA", "NY.GDP.MKTP.CD", 2020, 2.1e13),
		rec("CAN", "SP.POP.TOTL", 2020, 38037204),
		rec("CAN", "XX.NOT.REAL", 2020, 1),
	})
	require.NoError(t, err)

	got, err := repo.Find(ctx, models.RecordFilter{Country: "USA", Indicator: "SP.POP.TOTL", Year: intp(2020)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 331002651.0, got[0].Value)

	got, err = repo.Find(ctx, models.RecordFilter{Country: "USA"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = repo.Find(ctx, models.RecordFilter{Indicator: "SP.POP.TOTL", Year: intp(2020)})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	list, err := repo.ListDistinct(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.IndicatorSummary{
		{Code: "SP.POP.TOTL", Description: "Population, total"},
		{Code: "NY.GDP.MKTP.CD", Description: "GDP (current US$)"},
		{Code: "XX.NOT.REAL", Description: catalog.Placeholder},
	}, list)
}
