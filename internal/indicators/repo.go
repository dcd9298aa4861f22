// Package indicators stores normalized indicator observations.
package indicators

import (
	"context"
	"fmt"
	"strings"

	"wbdata/pkg/database"
	"wbdata/pkg/models"
)

var recordColumns = []string{"id", "country", "indicator", "indicator_description", "year", "value", "retrieved_at"}

type Repo struct {
	DB *database.DB
}

func NewRepo(db *database.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert writes records in one transaction. A row that already holds the same
// (country, indicator, year) is overwritten, so the latest write of a triple
// wins, also within a single batch. Record ids are recomputed from the triple.
func (r *Repo) Upsert(ctx context.Context, records []models.IndicatorRecord) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, r.DB.Dialect.Upsert(
		"indicators_data",
		recordColumns,
		[]string{"country", "indicator", "year"},
		[]string{"id", "indicator_description", "value", "retrieved_at"},
	))
	if err != nil {
		return 0, fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		id := models.RecordID(rec.CountryCode, rec.IndicatorCode, rec.Year)
		if _, err := stmt.ExecContext(ctx,
			id,
			rec.CountryCode,
			rec.IndicatorCode,
			rec.Description,
			rec.Year,
			rec.Value,
			rec.FetchedAt.UTC(),
		); err != nil {
			return 0, fmt.Errorf("exec upsert for %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return len(records), nil
}

// ListDistinct returns every distinct (indicator, description) pair stored.
func (r *Repo) ListDistinct(ctx context.Context) ([]models.IndicatorSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT indicator, indicator_description FROM indicators_data`)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.IndicatorSummary, 0)
	for rows.Next() {
		var s models.IndicatorSummary
		if err := rows.Scan(&s.Code, &s.Description); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Find returns the records matching every set field of f.
func (r *Repo) Find(ctx context.Context, f models.RecordFilter) ([]models.IndicatorRecord, error) {
	sqlStr, args := buildFindSQL(f)

	rows, err := r.DB.QueryContext(ctx, r.DB.Dialect.Rebind(sqlStr), args...)
	if err != nil {
		return nil, fmt.Errorf("find query: %w", err)
	}
	defer rows.Close()

	out := make([]models.IndicatorRecord, 0)
	for rows.Next() {
		var (
			rec models.IndicatorRecord
			at  database.Timestamp
		)
		if err := rows.Scan(
			&rec.ID, &rec.CountryCode, &rec.IndicatorCode, &rec.Description, &rec.Year, &rec.Value, &at,
		); err != nil {
			return nil, fmt.Errorf("find scan: %w", err)
		}
		rec.FetchedAt = at.Time
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func buildFindSQL(f models.RecordFilter) (string, []any) {
	sqlStr := `SELECT ` + strings.Join(recordColumns, ", ") + ` FROM indicators_data`

	var where []string
	var args []any

	if f.Country != "" {
		where = append(where, "country = ?")
		args = append(args, f.Country)
	}
	if f.Indicator != "" {
		where = append(where, "indicator = ?")
		args = append(args, f.Indicator)
	}
	if f.Year != nil {
		where = append(where, "year = ?")
		args = append(args, *f.Year)
	}

	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}
	return sqlStr, args
}
