package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestCodec_ToDB(t *testing.T) {
	value, err := Vectors.ToDB([]float32{1, 2, 3}, 3)
	require.NoError(t, err)
	assert.Equal(t, "[1.0,2.0,3.0]", value)

	value, err = Vectors.ToDB([]int{1, 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, "[1.0,2.0]", value)

	value, err = Vectors.ToDB([]any{1, 2.5, true}, 0)
	require.NoError(t, err)
	assert.Equal(t, "[1.0,2.5,1.0]", value)

	value, err = Float16Vectors.ToDB([]float16.Float16{float16.Fromfloat32(0.5)}, 1)
	require.NoError(t, err)
	assert.Equal(t, "[0.5]", value)

	value, err = BinaryVectors.ToDB([]int{0, 0, 1}, 3)
	require.NoError(t, err)
	assert.Equal(t, "[0,0,1]", value)

	value, err = SparseVectors.ToDB(map[int]float32{1: 2}, 0)
	assert.Nil(t, value)
	var missing *MissingArgumentError
	require.ErrorAs(t, err, &missing)

	value, err = SparseVectors.ToDB([]float64{0, 1.5, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, "{1:1.5}/3", value)
}

func TestCodec_DimensionMismatch(t *testing.T) {
	_, err := Vectors.ToDB([]float32{1, 2, 3}, 4)
	var derr *DimensionMismatchError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 4, derr.Expected)
	assert.Equal(t, 3, derr.Actual)

	_, err = SparseVectors.ToDB(SparseFromParts(6, nil, nil), 5)
	require.ErrorAs(t, err, &derr)
}

func TestCodec_Rank(t *testing.T) {
	tests := []struct {
		name  string
		value any
		rank  int
	}{
		{name: "matrix", value: [][]float32{{1, 2}, {3, 4}}, rank: 2},
		{name: "scalar", value: 3.0, rank: 0},
		{name: "nested any", value: []any{1, []float64{2}}, rank: 2},
		{name: "array of arrays", value: [2][2]int{}, rank: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Vectors.ToDB(tc.value, 0)
			var rerr *RankError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tc.rank, rerr.Rank)
		})
	}
}

func TestCodec_TypeError(t *testing.T) {
	_, err := Vectors.ToDB([]string{"a"}, 0)
	var terr *TypeError
	require.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, ErrInvalidVector)
}

func TestCodec_NilPassthrough(t *testing.T) {
	value, err := Vectors.ToDB(nil, 3)
	assert.NoError(t, err)
	assert.Nil(t, value)

	value, err = BinaryVectors.ToDBBinary(nil)
	assert.NoError(t, err)
	assert.Nil(t, value)

	v, err := SparseVectors.FromDB(nil)
	assert.NoError(t, err)
	assert.Nil(t, v)

	f, err := Float16Vectors.FromDBBinary(nil)
	assert.NoError(t, err)
	assert.Nil(t, f)
}

func TestCodec_TypedNilPassthrough(t *testing.T) {
	var nilVector *Vector
	value, err := Vectors.ToDB(nilVector, 3)
	assert.NoError(t, err)
	assert.Nil(t, value)

	value, err = Vectors.ToDBBinary(nilVector)
	assert.NoError(t, err)
	assert.Nil(t, value)

	var nilHalf *Float16Vector
	value, err = Float16Vectors.ToDB(nilHalf, 0)
	assert.NoError(t, err)
	assert.Nil(t, value)

	var nilBits *BinaryVector
	value, err = BinaryVectors.ToDBBinary(nilBits)
	assert.NoError(t, err)
	assert.Nil(t, value)

	var nilSparse *SparseVector
	value, err = SparseVectors.ToDB(nilSparse, 0)
	assert.NoError(t, err)
	assert.Nil(t, value)

	value, err = SparseVectors.ToDBBinary(nilSparse)
	assert.NoError(t, err)
	assert.Nil(t, value)

	loaded, err := Vectors.FromDB(nilVector)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCodec_BinaryRoundTrip(t *testing.T) {
	raw, err := SparseVectors.ToDBBinary(FromDense{Values: []float32{0, 3, 0, 0}})
	require.NoError(t, err)
	v, err := SparseVectors.FromDBBinary(raw)
	require.NoError(t, err)
	assert.Equal(t, "{1:3.0}/4", v.Text())

	raw, err = Vectors.ToDBBinary([]float64{0.25})
	require.NoError(t, err)
	dense, err := Vectors.FromDBBinary(raw)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25}, dense.Values())

	_, err = Vectors.FromDBBinary("[1]")
	assert.Error(t, err)
}

func TestCodec_FromDB(t *testing.T) {
	v, err := Vectors.FromDB("[1,2]")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, v.Values())

	v, err = Vectors.FromDB([]byte("[3]"))
	require.NoError(t, err)
	assert.Equal(t, []float32{3}, v.Values())

	same := NewVector([]float32{4})
	v, err = Vectors.FromDB(same)
	require.NoError(t, err)
	assert.True(t, same.Equal(*v))

	b, err := BinaryVectors.FromDB("[1,0]")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, b.Bools())

	_, err = Vectors.FromDB(12)
	assert.Error(t, err)
	_, err = Vectors.FromDB("nope")
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}
