package pgtype

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/viant/pgvecto/vector"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CatalogQuery selects the OIDs of every extension type with a codec.
var CatalogQuery = catalogQuery()

func catalogQuery() string {
	names := make([]string, len(TypeNames))
	for i, name := range TypeNames {
		names[i] = pq.QuoteLiteral(name)
	}
	return "SELECT oid, typname FROM pg_type WHERE typname IN (" + strings.Join(names, ", ") + ")"
}

// Discover looks up the extension's type OIDs and registers every type the
// server provides. The vector type is required; the others are optional.
func Discover(ctx context.Context, q Querier, r *Registry) error {
	rows, err := q.QueryContext(ctx, CatalogQuery)
	if err != nil {
		return fmt.Errorf("pgtype: failed to query pg_type: %w", err)
	}
	defer rows.Close()

	found := make(map[string]uint32)
	for rows.Next() {
		var oid uint32
		var name string
		if err := rows.Scan(&oid, &name); err != nil {
			return fmt.Errorf("pgtype: failed to scan pg_type row: %w", err)
		}
		found[name] = oid
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("pgtype: failed to read pg_type: %w", err)
	}
	if _, ok := found[vector.Vectors.TypeName]; !ok {
		return &UnsupportedTypeError{TypeName: vector.Vectors.TypeName}
	}
	for _, name := range TypeNames {
		oid, ok := found[name]
		if !ok {
			continue
		}
		if err := r.Register(name, oid); err != nil {
			return err
		}
	}
	return nil
}
