package collection

import (
	"strconv"

	"github.com/lib/pq"
)

// Dialect holds the SQL differences between the databases a collection can
// live in.
type Dialect struct {
	Name string

	idType    string
	metaType  string
	extension bool
	embedding func(dim int) string
	vector    func(placeholder string) string
	estimate  func(table string) (string, []any)
}

var (
	// Postgres targets PostgreSQL with the pgvecto.rs extension.
	Postgres = Dialect{
		Name:      "postgres",
		idType:    "UUID",
		metaType:  "JSONB",
		extension: true,
		embedding: func(dim int) string { return "vector(" + strconv.Itoa(dim) + ")" },
		vector:    func(placeholder string) string { return placeholder + "::vector" },
		estimate: func(table string) (string, []any) {
			return "SELECT reltuples::bigint FROM pg_class WHERE oid = $1::regclass", []any{pq.QuoteIdentifier(table)}
		},
	}

	// SQLite stores every column as text. It has no planner statistics, so
	// estimates are exact counts.
	SQLite = Dialect{
		Name:      "sqlite",
		idType:    "TEXT",
		metaType:  "TEXT",
		embedding: func(int) string { return "TEXT" },
		vector:    func(placeholder string) string { return placeholder },
		estimate: func(table string) (string, []any) {
			return "SELECT count(*) FROM " + pq.QuoteIdentifier(table), nil
		},
	}
)
