package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/viant/pgvecto/index"
	"github.com/viant/pgvecto/vector"
)

// DefaultTopK is the number of results Search returns when topK <= 0.
const DefaultTopK = 4

var (
	// ErrInvalidDistanceOp is returned by Search for an operator other than
	// L2, cosine or inner product distance.
	ErrInvalidDistanceOp = errors.New("collection: invalid distance operator")

	// ErrEstimateWithFilter is returned when an estimated row count is
	// requested together with a filter.
	ErrEstimateWithFilter = errors.New("collection: cannot estimate row count with a filter")
)

// Client reads and writes one collection.
type Client struct {
	db      *sql.DB
	name    string
	table   string
	dim     int
	dialect Dialect
	logger  *slog.Logger
}

// Open connects to a PostgreSQL database through lib/pq and opens the
// collection like New.
func Open(ctx context.Context, dsn, name string, dim int, opts ...Option) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("collection: failed to open database: %w", err)
	}
	c, err := New(ctx, db, name, dim, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// New connects to the collection table collection_<name>, creating it when
// missing. With WithRecreate an existing table is dropped first.
func New(ctx context.Context, db *sql.DB, name string, dim int, opts ...Option) (*Client, error) {
	if db == nil {
		return nil, fmt.Errorf("collection: db is nil")
	}
	if name == "" {
		return nil, fmt.Errorf("collection: name is empty")
	}
	if dim <= 0 || dim > vector.MaxDenseDimensions {
		return nil, &vector.DimensionRangeError{Dim: dim, Max: vector.MaxDenseDimensions}
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Client{
		db:      db,
		name:    name,
		table:   TableName(name),
		dim:     dim,
		dialect: o.dialect,
		logger:  o.logger.With("collection", name, "dialect", o.dialect.Name),
	}

	var stmts []string
	if o.dialect.extension && o.extension {
		stmts = append(stmts, "CREATE EXTENSION IF NOT EXISTS vectors")
	}
	if o.recreate {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+c.quotedTable())
	}
	stmts = append(stmts, c.createTable(o.unique))
	for _, stmt := range stmts {
		if err := c.exec(ctx, "create", stmt); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// TableName returns the table backing the named collection.
func TableName(name string) string { return "collection_" + name }

// Name returns the collection name.
func (c *Client) Name() string { return c.name }

// Table returns the backing table name.
func (c *Client) Table() string { return c.table }

// Dimensions returns the embedding width.
func (c *Client) Dimensions() int { return c.dim }

func (c *Client) quotedTable() string { return pq.QuoteIdentifier(c.table) }

func (c *Client) createTable(unique []Column) string {
	columns := []string{
		"id " + c.dialect.idType + " PRIMARY KEY",
		"text TEXT",
		"meta " + c.dialect.metaType,
		"embedding " + c.dialect.embedding(c.dim),
	}
	for _, set := range unique {
		columns = append(columns, "UNIQUE ("+strings.Join(set.names(), ", ")+")")
	}
	return "CREATE TABLE IF NOT EXISTS " + c.quotedTable() + " (\n    " + strings.Join(columns, ",\n    ") + "\n)"
}

// Insert writes records in one transaction. Every embedding must have the
// collection's dimension; on any failure nothing is written.
func (c *Client) Insert(ctx context.Context, records ...Record) (err error) {
	if len(records) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("collection: failed to begin insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt := "INSERT INTO " + c.quotedTable() + " (id, text, meta, embedding) VALUES ($1, $2, $3, " + c.dialect.vector("$4") + ")"
	for _, r := range records {
		embedding, err := vector.Vectors.ToDB(r.Embedding, c.dim)
		if err != nil {
			return fmt.Errorf("collection: record %s: %w", r.ID, err)
		}
		meta := r.Meta
		if meta == nil {
			meta = map[string]any{}
		}
		encoded, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("collection: record %s: failed to encode meta: %w", r.ID, err)
		}
		if _, err = tx.ExecContext(ctx, stmt, r.ID.String(), r.Text, string(encoded), embedding); err != nil {
			c.logger.Error("insert failed", "table", c.table, "id", r.ID, "error", err)
			return fmt.Errorf("collection: failed to insert record %s: %w", r.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("collection: failed to commit insert: %w", err)
	}
	c.logger.Debug("inserted records", "table", c.table, "op", "insert", "count", len(records))
	return nil
}

// searchQuery builds the statement Search runs.
func (c *Client) searchQuery(embedding any, op index.Operator, topK int, filter *Filter) (string, []any, error) {
	switch op {
	case index.L2Distance, index.CosineDistance, index.MaxInnerProduct:
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidDistanceOp, op)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	query, err := vector.Vectors.ToDB(embedding, c.dim)
	if err != nil {
		return "", nil, err
	}
	args := []any{query}
	var sb strings.Builder
	sb.WriteString("SELECT id, text, meta, embedding, embedding " + string(op) + " " + c.dialect.vector("$1") + " AS distance FROM " + c.quotedTable())
	if filter != nil {
		where, filterArgs, err := filter.bind(len(args))
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE " + where)
		args = append(args, filterArgs...)
	}
	args = append(args, topK)
	sb.WriteString(" ORDER BY distance LIMIT $" + strconv.Itoa(len(args)))
	return sb.String(), args, nil
}

// Search returns up to topK records nearest to embedding under op, closest
// first. A nil filter matches every record.
func (c *Client) Search(ctx context.Context, embedding any, op index.Operator, topK int, filter *Filter) ([]Result, error) {
	query, args, err := c.searchQuery(embedding, op, topK, filter)
	if err != nil {
		return nil, err
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		c.logger.Error("search failed", "table", c.table, "op", string(op), "error", err)
		return nil, fmt.Errorf("collection: search failed: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var res Result
		if err := scanRecord(rows, &res.Record, &res.Distance); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collection: search failed: %w", err)
	}
	c.logger.Debug("searched", "table", c.table, "op", string(op), "count", len(out))
	return out, nil
}

// Records returns the records matching filter ordered by id. A nil filter
// matches every record.
func (c *Client) Records(ctx context.Context, filter *Filter) ([]Record, error) {
	query := "SELECT id, text, meta, embedding FROM " + c.quotedTable()
	where, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}
	rows, err := c.db.QueryContext(ctx, query+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("collection: failed to list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := scanRecord(rows, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collection: failed to list records: %w", err)
	}
	return out, nil
}

func scanRecord(rows *sql.Rows, r *Record, extra ...any) error {
	var (
		text      sql.NullString
		meta      []byte
		embedding sql.Null[vector.Vector]
	)
	dest := append([]any{&r.ID, &text, &meta, &embedding}, extra...)
	if err := rows.Scan(dest...); err != nil {
		return fmt.Errorf("collection: failed to scan record: %w", err)
	}
	r.Text = text.String
	r.Embedding = embedding.V
	r.Meta = map[string]any{}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &r.Meta); err != nil {
			return fmt.Errorf("collection: record %s: failed to decode meta: %w", r.ID, err)
		}
	}
	return nil
}

// RowCount returns the exact number of records matching filter.
func (c *Client) RowCount(ctx context.Context, filter *Filter) (int64, error) {
	where, args, err := c.where(filter)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := c.db.QueryRowContext(ctx, "SELECT count(*) FROM "+c.quotedTable()+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("collection: failed to count rows: %w", err)
	}
	return n, nil
}

// EstimateRowCount returns the planner's row estimate for the table. It
// cannot be combined with a filter.
func (c *Client) EstimateRowCount(ctx context.Context, filter *Filter) (int64, error) {
	if filter != nil {
		return 0, ErrEstimateWithFilter
	}
	query, args := c.dialect.estimate(c.table)
	var n int64
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("collection: failed to estimate rows: %w", err)
	}
	return n, nil
}

// Delete removes the records matching filter, which is required.
func (c *Client) Delete(ctx context.Context, filter *Filter) (int64, error) {
	if filter == nil {
		return 0, fmt.Errorf("collection: delete requires a filter; use DeleteAll")
	}
	where, args, err := c.where(filter)
	if err != nil {
		return 0, err
	}
	return c.delete(ctx, "delete", where, args)
}

// DeleteAll removes every record.
func (c *Client) DeleteAll(ctx context.Context) (int64, error) {
	return c.delete(ctx, "delete_all", "", nil)
}

// DeleteByIDs removes the records with the given ids.
func (c *Client) DeleteByIDs(ctx context.Context, ids ...uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id.String()
	}
	return c.delete(ctx, "delete_by_ids", " WHERE id IN ("+strings.Join(placeholders, ", ")+")", args)
}

func (c *Client) delete(ctx context.Context, op, where string, args []any) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM "+c.quotedTable()+where, args...)
	if err != nil {
		c.logger.Error("delete failed", "table", c.table, "op", op, "error", err)
		return 0, fmt.Errorf("collection: %s failed: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("collection: %s failed: %w", op, err)
	}
	c.logger.Debug("deleted records", "table", c.table, "op", op, "count", n)
	return n, nil
}

// Drop drops the collection table.
func (c *Client) Drop(ctx context.Context) error {
	return c.exec(ctx, "drop", "DROP TABLE "+c.quotedTable())
}

// IndexStatement returns the CREATE INDEX statement CreateIndex runs for the
// embedding column.
func (c *Client) IndexStatement(name string, class index.OpClass, opt index.Option) (string, error) {
	return index.CreateStatement(name, c.table, "embedding", class, opt)
}

// CreateIndex builds a vectors index over the embedding column.
func (c *Client) CreateIndex(ctx context.Context, name string, class index.OpClass, opt index.Option) error {
	stmt, err := c.IndexStatement(name, class, opt)
	if err != nil {
		return err
	}
	return c.exec(ctx, "create_index", stmt)
}

func (c *Client) where(filter *Filter) (string, []any, error) {
	if filter == nil {
		return "", nil, nil
	}
	expr, args, err := filter.bind(0)
	if err != nil {
		return "", nil, err
	}
	return " WHERE " + expr, args, nil
}

func (c *Client) exec(ctx context.Context, op, stmt string) error {
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		c.logger.Error("statement failed", "table", c.table, "op", op, "error", err)
		return fmt.Errorf("collection: %s failed: %w", op, err)
	}
	c.logger.Debug("executed statement", "table", c.table, "op", op)
	return nil
}
