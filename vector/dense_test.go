package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestVector_Text(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want string
	}{
		{name: "integral", in: []float32{1, 2, 3}, want: "[1.0,2.0,3.0]"},
		{name: "fractions", in: []float32{0.5, -0.25, 0.1}, want: "[0.5,-0.25,0.1]"},
		{name: "exponent", in: []float32{1e-5, 1e20}, want: "[1e-05,1e+20]"},
		{name: "empty", in: nil, want: "[]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := NewVector(tc.in)
			assert.Equal(t, tc.want, v.Text())
			assert.Equal(t, tc.want, v.String())
		})
	}
}

func TestParseVector(t *testing.T) {
	v, err := ParseVector(" [1, -2.5 ,3e2] ")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, -2.5, 300}, v.Values())

	v, err = ParseVector("[]")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Dimensions())

	for _, in := range []string{"1,2", "[1,2", "[a,1]", "[1,,2]"} {
		_, err := ParseVector(in)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, "input %q", in)
		assert.Equal(t, "vector", perr.Type)
	}
}

func TestVector_TextRoundTrip(t *testing.T) {
	in := NewVector([]float32{0.1, 1.0 / 3, -7, float32(math.Inf(1)), 1e-30})
	parsed, err := ParseVector(in.Text())
	require.NoError(t, err)
	assert.True(t, in.Equal(parsed), "got %s", parsed)
}

func TestVector_MarshalBinary(t *testing.T) {
	b, err := NewVector([]float32{1, 2}).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x02, 0x00,
		0x00, 0x00, 0x80, 0x3f,
		0x00, 0x00, 0x00, 0x40,
	}, b)

	decoded, err := DecodeVector(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, decoded.Values())

	var out Vector
	require.NoError(t, out.UnmarshalBinary(b))
	assert.True(t, out.Equal(decoded))
}

func TestVector_MarshalBinaryRange(t *testing.T) {
	_, err := NewVector(make([]float32, MaxDenseDimensions+1)).MarshalBinary()
	var rerr *DimensionRangeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, MaxDenseDimensions+1, rerr.Dim)

	_, err = NewVector(make([]float32, MaxDenseDimensions)).MarshalBinary()
	assert.NoError(t, err)
}

func TestDecodeVector_Truncated(t *testing.T) {
	for _, in := range [][]byte{nil, {0x01}, {0x02, 0x00, 0x00, 0x00, 0x80, 0x3f}} {
		_, err := DecodeVector(in)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, "input %v", in)
		assert.ErrorIs(t, err, ErrInvalidVector)
	}
}

func TestFloat16Vector_MarshalBinary(t *testing.T) {
	v := NewFloat16Vector([]float32{1, 2, -0.5})
	b, err := v.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x03, 0x00,
		0x00, 0x3c,
		0x00, 0x40,
		0x00, 0xb8,
	}, b)

	decoded, err := DecodeFloat16Vector(b)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, -0.5}, decoded.Float32s())
	assert.Equal(t, "[1.0,2.0,-0.5]", decoded.Text())
}

func TestFloat16Vector_Narrowing(t *testing.T) {
	v := NewFloat16Vector([]float32{2.1, 70000})
	got := v.Float32s()
	assert.Equal(t, float16.Fromfloat32(2.1).Float32(), got[0])
	assert.True(t, math.IsInf(float64(got[1]), 1))

	parsed, err := ParseFloat16Vector(v.Text())
	require.NoError(t, err)
	assert.True(t, v.Equal(parsed), "got %s want %s", parsed, v)
}

func TestDense_CheckDimensions(t *testing.T) {
	v := NewVector([]float32{1, 2, 3})
	assert.NoError(t, v.CheckDimensions(3))
	err := v.CheckDimensions(4)
	var derr *DimensionMismatchError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, DimensionMismatchError{Expected: 4, Actual: 3}, *derr)
	assert.EqualError(t, err, "vector: expected 4 dimensions, not 3")
}

func TestDense_ValueScan(t *testing.T) {
	in := NewVector([]float32{1.5, 2})
	value, err := in.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1.5,2.0]", value)

	var out Vector
	require.NoError(t, out.Scan(value))
	assert.True(t, in.Equal(out))
	require.NoError(t, out.Scan([]byte("[3]")))
	assert.Equal(t, []float32{3}, out.Values())
	assert.Error(t, out.Scan(42))
}

func TestDense_ValuesAreCopies(t *testing.T) {
	src := []float32{1, 2}
	v := NewVector(src)
	src[0] = 9
	got := v.Values()
	got[1] = 9
	assert.Equal(t, []float32{1, 2}, v.Values())
}
