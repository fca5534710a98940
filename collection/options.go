package collection

import (
	"io"
	"log/slog"
)

// Column identifies a record column in a unique constraint.
type Column int

const (
	TextColumn      Column = 1
	MetaColumn      Column = 2
	EmbeddingColumn Column = 4
)

func (c Column) names() []string {
	var out []string
	if c&TextColumn != 0 {
		out = append(out, "text")
	}
	if c&MetaColumn != 0 {
		out = append(out, "meta")
	}
	if c&EmbeddingColumn != 0 {
		out = append(out, "embedding")
	}
	return out
}

type options struct {
	dialect   Dialect
	recreate  bool
	unique    []Column
	logger    *slog.Logger
	extension bool
}

func defaultOptions() options {
	return options{
		dialect:   Postgres,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		extension: true,
	}
}

// Option configures New.
type Option func(*options)

// WithDialect selects the SQL dialect. Postgres is the default.
func WithDialect(d Dialect) Option {
	return func(o *options) { o.dialect = d }
}

// WithRecreate drops an existing collection table before creating it.
func WithRecreate() Option {
	return func(o *options) { o.recreate = true }
}

// WithUnique adds a UNIQUE constraint over the given columns. Each call adds
// one constraint.
func WithUnique(columns ...Column) Option {
	return func(o *options) {
		var set Column
		for _, c := range columns {
			set |= c
		}
		if set != 0 {
			o.unique = append(o.unique, set)
		}
	}
}

// WithLogger sets the logger statements are reported to. If nil is passed,
// logging is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		o.logger = logger
	}
}

// WithoutExtension skips CREATE EXTENSION, for databases where the
// extension is managed separately.
func WithoutExtension() Option {
	return func(o *options) { o.extension = false }
}
