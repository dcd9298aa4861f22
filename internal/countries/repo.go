// Package countries stores the country directory.
package countries

import (
	"context"
	"fmt"

	"wbdata/pkg/database"
	"wbdata/pkg/models"
)

type Repo struct {
	DB *database.DB
}

func NewRepo(db *database.DB) *Repo {
	return &Repo{DB: db}
}

// Save inserts the given countries, replacing name and url of any code that
// is already stored. Saving the same directory twice leaves one row per code.
func (r *Repo) Save(ctx context.Context, countries []models.Country) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, r.DB.Dialect.Upsert(
		"countries",
		[]string{"country_code", "name", "url"},
		[]string{"country_code"},
		[]string{"name", "url"},
	))
	if err != nil {
		return 0, fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, c := range countries {
		if _, err := stmt.ExecContext(ctx, c.Code, c.Name, c.SourceURL); err != nil {
			return 0, fmt.Errorf("exec upsert for %s: %w", c.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return len(countries), nil
}

// All returns the full directory, ordered by code.
func (r *Repo) All(ctx context.Context) ([]models.Country, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT country_code, name, url FROM countries ORDER BY country_code`)
	if err != nil {
		return nil, fmt.Errorf("all query: %w", err)
	}
	defer rows.Close()

	var out []models.Country
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.Code, &c.Name, &c.SourceURL); err != nil {
			return nil, fmt.Errorf("all scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// List returns the distinct (code, name) pairs.
func (r *Repo) List(ctx context.Context) ([]models.CountrySummary, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT country_code, name FROM countries`)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.CountrySummary, 0)
	for rows.Next() {
		var c models.CountrySummary
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Exists(ctx context.Context, code string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		r.DB.Dialect.Rebind(`SELECT COUNT(*) FROM countries WHERE country_code = ?`), code,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("exists scan: %w", err)
	}
	return n > 0, nil
}

// Codes returns every stored code except the unknown placeholder, in code
// order. These are the countries an ingestion pass asks the API about.
func (r *Repo) Codes(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		r.DB.Dialect.Rebind(`SELECT country_code FROM countries WHERE country_code <> ? ORDER BY country_code`),
		models.UnknownCountryCode,
	)
	if err != nil {
		return nil, fmt.Errorf("codes query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("codes scan: %w", err)
		}
		out = append(out, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
