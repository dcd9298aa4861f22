package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// recordNamespace scopes the name-based record ids.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://api.worldbank.org/v2/indicator"))

// RecordID derives the storage id of an observation from its natural key, so
// the same (country, indicator, year) always maps to the same row.
func RecordID(country, indicator string, year int) string {
	key := country + "\x00" + indicator + "\x00" + strconv.Itoa(year)
	return uuid.NewSHA1(recordNamespace, []byte(key)).String()
}

// IndicatorRecord is the canonical, stored form of one observation.
//
// There is at most one record per (CountryCode, IndicatorCode, Year); ID is
// derived from that triple so re-ingestion overwrites instead of duplicating.
type IndicatorRecord struct {
	ID            string    `json:"id" csv:"id"`
	CountryCode   string    `json:"country" csv:"country"`
	IndicatorCode string    `json:"indicator" csv:"indicator"`
	Description   string    `json:"indicator_description" csv:"indicator_description"`
	Year          int       `json:"year" csv:"year"`
	Value         float64   `json:"value" csv:"value"`
	FetchedAt     time.Time `json:"retrieved_at" csv:"retrieved_at"`
}

// IndicatorSummary is one distinct (code, description) pair seen in the store.
type IndicatorSummary struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// RecordFilter narrows a record lookup. Empty strings and nil Year mean "any".
type RecordFilter struct {
	Country   string
	Indicator string
	Year      *int
}
