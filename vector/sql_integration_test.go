package vector_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/pgvecto/engine"
	"github.com/viant/pgvecto/vector"
)

// TestSQLValuerScanner stores every vector type through driver.Valuer and
// reads it back through sql.Scanner.
func TestSQLValuerScanner(t *testing.T) {
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE items(
		id INTEGER PRIMARY KEY,
		dense TEXT,
		half TEXT,
		bits TEXT,
		sparse TEXT
	)`)
	require.NoError(t, err)

	dense := vector.NewVector([]float32{1, 0.5, -3})
	half := vector.NewFloat16Vector([]float32{0.25, 2})
	bits := vector.NewBinaryVector([]bool{true, false, true, true})
	sparse, err := vector.NewSparseVector(vector.FromMap{Entries: map[int]float32{7: 1.5, 2: -1}, Dim: vector.Dim(8)})
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO items(id, dense, half, bits, sparse) VALUES (1, ?, ?, ?, ?)", dense, half, bits, sparse)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO items(id) VALUES (2)")
	require.NoError(t, err)

	var raw string
	require.NoError(t, db.QueryRow("SELECT sparse FROM items WHERE id = 1").Scan(&raw))
	assert.Equal(t, "{2:-1.0,7:1.5}/8", raw)

	var (
		gotDense  vector.Vector
		gotHalf   vector.Float16Vector
		gotBits   vector.BinaryVector
		gotSparse vector.SparseVector
	)
	require.NoError(t, db.QueryRow("SELECT dense, half, bits, sparse FROM items WHERE id = 1").
		Scan(&gotDense, &gotHalf, &gotBits, &gotSparse))
	assert.True(t, dense.Equal(gotDense), "dense %s", gotDense)
	assert.True(t, half.Equal(gotHalf), "half %s", gotHalf)
	assert.True(t, bits.Equal(gotBits), "bits %s", gotBits)
	assert.True(t, sparse.Equal(gotSparse), "sparse %s", gotSparse)

	var nullDense sql.Null[vector.Vector]
	require.NoError(t, db.QueryRow("SELECT dense FROM items WHERE id = 2").Scan(&nullDense))
	assert.False(t, nullDense.Valid)
}

// TestSQLBinaryPayloads stores binary wire payloads as BLOBs and decodes
// them with the codec entry points.
func TestSQLBinaryPayloads(t *testing.T) {
	db, err := engine.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE payloads(id INTEGER PRIMARY KEY, body BLOB)")
	require.NoError(t, err)

	payload, err := vector.SparseVectors.ToDBBinary([]float32{0, 0, 4})
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO payloads(id, body) VALUES (1, ?)", payload)
	require.NoError(t, err)

	var body []byte
	require.NoError(t, db.QueryRow("SELECT body FROM payloads WHERE id = 1").Scan(&body))
	v, err := vector.SparseVectors.FromDBBinary(body)
	require.NoError(t, err)
	assert.Equal(t, "{2:4.0}/3", v.Text())
}
