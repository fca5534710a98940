package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpen verifies that both in-memory and file databases open through the
// modernc.org/sqlite driver and accept statements.
func TestOpen(t *testing.T) {
	for _, dsn := range []string{":memory:", filepath.Join(t.TempDir(), "wire.sqlite")} {
		db, err := Open(dsn)
		require.NoError(t, err, dsn)
		_, err = db.Exec("CREATE TABLE payloads(kind TEXT, body BLOB)")
		require.NoError(t, err, dsn)
		_, err = db.Exec("INSERT INTO payloads(kind, body) VALUES ('vector', X'0000')")
		require.NoError(t, err, dsn)
		var n int
		require.NoError(t, db.QueryRow("SELECT count(*) FROM payloads").Scan(&n))
		assert.Equal(t, 1, n)
		require.NoError(t, db.Close())
	}
}
