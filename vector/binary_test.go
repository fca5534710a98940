package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryVector_MarshalBinary(t *testing.T) {
	b, err := NewBinaryVector([]bool{false, false, true}).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, b)
}

func TestBinaryVector_Words(t *testing.T) {
	bits := make([]bool, 65)
	bits[0] = true
	bits[63] = true
	bits[64] = true
	v := NewBinaryVector(bits)
	assert.Equal(t, []uint64{1 | 1<<63, 1}, v.Words())
	assert.Equal(t, 3, v.Count())
	assert.Empty(t, NewBinaryVector(nil).Words())

	b, err := v.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, 2+2*8)

	decoded, err := DecodeBinaryVector(b)
	require.NoError(t, err)
	assert.True(t, v.Equal(decoded))
}

func TestDecodeBinaryVector_IgnoresPadding(t *testing.T) {
	decoded, err := DecodeBinaryVector([]byte{0x03, 0x00, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true}, decoded.Bools())
}

func TestDecodeBinaryVector_Truncated(t *testing.T) {
	_, err := DecodeBinaryVector([]byte{0x41, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bvector", perr.Type)
}

func TestParseBinaryVector(t *testing.T) {
	v, err := ParseBinaryVector("[0, 1,2,0]")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true, false}, v.Bools())
	assert.Equal(t, "[0,1,1,0]", v.Text())

	_, err = ParseBinaryVector("[0,x]")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, ErrInvalidVector)
}

func TestBinaryVector_ValueScan(t *testing.T) {
	in := NewBinaryVector([]bool{true, false})
	value, err := in.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1,0]", value)

	var out BinaryVector
	require.NoError(t, out.Scan(value))
	assert.True(t, in.Equal(out))
	assert.Error(t, out.Scan(1.5))
}
