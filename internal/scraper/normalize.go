package scraper

import (
	"strconv"
	"strings"
	"time"

	"wbdata/internal/catalog"
	"wbdata/pkg/models"
)

// CodeMap resolves the country identifiers the API reports to the codes stored
// in the country directory.
type CodeMap map[string]string

// NewCodeMap indexes the directory by code. Entries with the unknown code are
// not addressable and are left out.
func NewCodeMap(countries []models.Country) CodeMap {
	m := make(CodeMap, len(countries))
	for _, c := range countries {
		if c.Code == "" || c.Code == models.UnknownCountryCode {
			continue
		}
		m[strings.ToUpper(c.Code)] = c.Code
	}
	return m
}

// Resolve maps a raw API country id to a directory code. It tries the raw id,
// then the ISO3 code, and falls back to the raw id unchanged.
func (m CodeMap) Resolve(rawID, iso3 string) string {
	if code, ok := m[strings.ToUpper(rawID)]; ok {
		return code
	}
	if iso3 != "" {
		if code, ok := m[strings.ToUpper(iso3)]; ok {
			return code
		}
	}
	return rawID
}

// Normalize turns one API observation into a stored record. It reports false
// for observations that must not be stored: a null value or a date that is
// not a plain year.
func Normalize(obs Observation, codes CodeMap, cat *catalog.Catalog, now time.Time) (models.IndicatorRecord, bool) {
	if obs.Value == nil {
		return models.IndicatorRecord{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(obs.Date))
	if err != nil {
		return models.IndicatorRecord{}, false
	}

	country := codes.Resolve(obs.Country.ID, obs.CountryISO3Code)
	indicator := obs.Indicator.ID

	return models.IndicatorRecord{
		ID:            models.RecordID(country, indicator, year),
		CountryCode:   country,
		IndicatorCode: indicator,
		Description:   cat.Describe(indicator),
		Year:          year,
		Value:         *obs.Value,
		FetchedAt:     now.UTC(),
	}, true
}
