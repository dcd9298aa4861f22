// Package export converts the store contents to and from CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"

	"wbdata/pkg/models"
)

// WriteCountries writes a header row followed by one row per country.
func WriteCountries(w io.Writer, countries []models.Country) error {
	return encode(w, models.Country{}, countries)
}

// WriteRecords writes a header row followed by one row per record.
func WriteRecords(w io.Writer, records []models.IndicatorRecord) error {
	return encode(w, models.IndicatorRecord{}, records)
}

func encode(w io.Writer, header, rows any) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(header); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// ReadCountries decodes a country CSV. Rows without a code or name are
// dropped; an empty input yields no countries.
func ReadCountries(r io.Reader) ([]models.Country, error) {
	var rows []models.Country
	if err := decode(r, &rows); err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, c := range rows {
		c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
		c.Name = strings.TrimSpace(c.Name)
		if c.Code == "" || c.Name == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ReadRecords decodes a record CSV. Rows without a country or indicator are
// dropped. Ids are not trusted; the store derives them again.
func ReadRecords(r io.Reader) ([]models.IndicatorRecord, error) {
	var rows []models.IndicatorRecord
	if err := decode(r, &rows); err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, rec := range rows {
		rec.CountryCode = strings.TrimSpace(rec.CountryCode)
		rec.IndicatorCode = strings.TrimSpace(rec.IndicatorCode)
		if rec.CountryCode == "" || rec.IndicatorCode == "" {
			continue
		}
		rec.ID = models.RecordID(rec.CountryCode, rec.IndicatorCode, rec.Year)
		rec.FetchedAt = rec.FetchedAt.UTC()
		out = append(out, rec)
	}
	return out, nil
}

func decode(r io.Reader, v any) error {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode csv: %w", err)
	}
	return nil
}
