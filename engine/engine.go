package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// DriverName is the database/sql driver name Open uses.
const DriverName = "sqlite"

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./db.sqlite". For in-memory
// databases, pass ":memory:"; every pooled connection then sees its own
// database, so callers usually SetMaxOpenConns(1).
func Open(dsn string) (*sql.DB, error) { return sql.Open(DriverName, dsn) }
