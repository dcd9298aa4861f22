package database

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// Dialect carries the few SQL differences between the supported backends.
type Dialect struct {
	Driver     string
	schemaFile string
	dollar     bool // $1, $2 placeholders instead of ?
	onDupKey   bool // ON DUPLICATE KEY UPDATE instead of ON CONFLICT
}

var (
	SQLite   = Dialect{Driver: DriverSQLite, schemaFile: "schema/sqlite.sql"}
	Postgres = Dialect{Driver: DriverPostgres, schemaFile: "schema/postgres.sql", dollar: true}
	MySQL    = Dialect{Driver: DriverMySQL, schemaFile: "schema/mysql.sql", onDupKey: true}
)

// DialectFor maps a configured driver name (or a common alias) to a Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Rebind rewrites ? placeholders for dialects that number them.
// Queries must not contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if !d.dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Upsert builds an INSERT that overwrites the update columns when a row with
// the same conflict key already exists. The result is already rebound.
func (d Dialect) Upsert(table string, cols, conflict, update []string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), marks)

	sets := make([]string, 0, len(update))
	if d.onDupKey {
		for _, c := range update {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", c, c))
		}
		fmt.Fprintf(&b, " ON DUPLICATE KEY UPDATE %s", strings.Join(sets, ", "))
	} else {
		for _, c := range update {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
		fmt.Fprintf(&b, " ON CONFLICT(%s) DO UPDATE SET %s", strings.Join(conflict, ", "), strings.Join(sets, ", "))
	}
	return d.Rebind(b.String())
}
