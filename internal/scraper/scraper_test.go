package scraper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbdata/internal/catalog"
	"wbdata/pkg/models"
)

func fptr(v float64) *float64 { return &v }

type fakeSource struct {
	mu     sync.Mutex
	series map[string][]Observation
	fail   map[string]bool
	calls  []string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchSeries(_ context.Context, country, indicator string) ([]Observation, error) {
	key := country + "/" + indicator
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()
	if f.fail[key] {
		return nil, errors.New("connection reset")
	}
	return f.series[key], nil
}

func obs(country, iso3, indicator, date string, v *float64) Observation {
	return Observation{
		Indicator:       apiRef{ID: indicator},
		Country:         apiRef{ID: country},
		CountryISO3Code: iso3,
		Date:            date,
		Value:           v,
	}
}

func TestNormalize(t *testing.T) {
	cat := catalog.Default()
	codes := NewCodeMap([]models.Country{{Code: "USA"}, {Code: models.UnknownCountryCode}})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))

	rec, ok := Normalize(obs("US", "USA", "SP.POP.TOTL", "2020", fptr(331002651)), codes, cat, now)
	require.True(t, ok)
	assert.Equal(t, "USA", rec.CountryCode)
	assert.Equal(t, "Population, total", rec.Description)
	assert.Equal(t, 2020, rec.Year)
	assert.Equal(t, 331002651.0, rec.Value)
	assert.Equal(t, models.RecordID("USA", "SP.POP.TOTL", 2020), rec.ID)
	assert.Equal(t, time.UTC, rec.FetchedAt.Location())

	_, ok = Normalize(obs("US", "USA", "SP.POP.TOTL", "2020", nil), codes, cat, now)
	assert.False(t, ok, "null values are dropped")

	_, ok = Normalize(obs("US", "USA", "SP.POP.TOTL", "2020Q1", fptr(1)), codes, cat, now)
	assert.False(t, ok, "non-year dates are dropped")

	rec, ok = Normalize(obs("1W", "WLD", "XX.NOT.REAL", "2019", fptr(0)), codes, cat, now)
	require.True(t, ok)
	assert.Equal(t, "1W", rec.CountryCode, "unmapped country keeps its raw id")
	assert.Equal(t, catalog.Placeholder, rec.Description)
	assert.Equal(t, 0.0, rec.Value)
}

func TestCodeMapResolve(t *testing.T) {
	m := NewCodeMap([]models.Country{{Code: "US"}, {Code: "CAN"}})
	assert.Equal(t, "US", m.Resolve("us", "USA"))
	assert.Equal(t, "CAN", m.Resolve("CA", "CAN"))
	assert.Equal(t, "MX", m.Resolve("MX", "MEX"))
}

func TestCollectSkipsFailedPairs(t *testing.T) {
	src := &fakeSource{
		series: map[string][]Observation{
			"USA/SP.POP.TOTL": {
				obs("US", "USA", "SP.POP.TOTL", "2020", fptr(331002651)),
				obs("US", "USA", "SP.POP.TOTL", "2021", nil),
			},
			"CAN/SP.POP.TOTL": {obs("CA", "CAN", "", "2020", fptr(38e6))},
		},
		fail: map[string]bool{"USA/NY.GDP.MKTP.CD": true},
	}
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, workers := range []int{1, 4} {
		src.calls = nil
		in := NewIngester(src, catalog.Default(), workers, nil)
		in.Now = func() time.Time { return fixed }

		codes := NewCodeMap([]models.Country{{Code: "USA"}, {Code: "CAN"}})
		recs, sum, err := in.Collect(context.Background(), []string{"USA", "CAN"}, codes, []string{"SP.POP.TOTL", "NY.GDP.MKTP.CD"})
		require.NoError(t, err)

		assert.Len(t, src.calls, 4)
		assert.Equal(t, Summary{Pairs: 4, Failed: 1, Observations: 3, Dropped: 1, Records: 2}, sum)
		require.Len(t, recs, 2)
		assert.Equal(t, "USA", recs[0].CountryCode)
		assert.Equal(t, "CAN", recs[1].CountryCode)
		assert.Equal(t, "SP.POP.TOTL", recs[1].IndicatorCode, "missing indicator id falls back to the requested code")
		assert.Equal(t, fixed, recs[0].FetchedAt)
	}
}

func TestCollectSequentialOrder(t *testing.T) {
	src := &fakeSource{}
	in := NewIngester(src, catalog.Default(), 1, nil)

	_, _, err := in.Collect(context.Background(), []string{"A", "B"}, CodeMap{}, []string{"X", "Y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A/X", "A/Y", "B/X", "B/Y"}, src.calls)
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := NewIngester(&fakeSource{}, catalog.Default(), 2, nil)
	_, _, err := in.Collect(ctx, []string{"A"}, CodeMap{}, []string{"X"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectAllPairsFailed(t *testing.T) {
	src := &fakeSource{fail: map[string]bool{"USA/X": true, "CAN/X": true}}
	in := NewIngester(src, catalog.Default(), 2, nil)

	recs, sum, err := in.Collect(context.Background(), []string{"USA", "CAN"}, CodeMap{}, []string{"X"})
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, 2, sum.Failed)
	assert.True(t, sum.AllFailed())

	// an empty series is not a failure
	src.fail = nil
	_, sum, err = in.Collect(context.Background(), []string{"USA"}, CodeMap{}, []string{"X"})
	require.NoError(t, err)
	assert.False(t, sum.AllFailed())
	assert.False(t, Summary{}.AllFailed())
}
