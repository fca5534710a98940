package vector

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

const binaryTypeName = "bvector"

// BinaryVector is a fixed-length sequence of bits (the extension's bvector
// type). The zero value is an empty vector.
type BinaryVector struct {
	bits []bool
}

// NewBinaryVector returns a BinaryVector holding a copy of bits.
func NewBinaryVector(bits []bool) BinaryVector {
	return BinaryVector{bits: append([]bool(nil), bits...)}
}

// ParseBinaryVector decodes the text form "[0,1,...]". Every token is parsed
// as an integer and any non-zero value is a set bit.
func ParseBinaryVector(s string) (BinaryVector, error) {
	interior, err := delimited(binaryTypeName, s, '[', ']')
	if err != nil {
		return BinaryVector{}, err
	}
	parts := tokens(interior)
	bits := make([]bool, len(parts))
	for i, tok := range parts {
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return BinaryVector{}, &ParseError{Type: binaryTypeName, Input: s, Reason: "invalid bit " + strconv.Quote(tok), cause: err}
		}
		bits[i] = n != 0
	}
	return BinaryVector{bits: bits}, nil
}

// DecodeBinaryVector decodes the binary form: u16 bit count followed by
// ceil(n/64) little-endian u64 words, least significant bit first.
func DecodeBinaryVector(b []byte) (BinaryVector, error) {
	dim, err := denseCount(binaryTypeName, b)
	if err != nil {
		return BinaryVector{}, err
	}
	words := wordCount(dim)
	if want := denseHeaderSize + words*8; len(b) < want {
		return BinaryVector{}, truncated(binaryTypeName, want, len(b))
	}
	set := make([]uint64, words)
	for i := range set {
		set[i] = le.Uint64(b[denseHeaderSize+i*8:])
	}
	packed := bitset.From(set)
	bits := make([]bool, dim)
	for i := range bits {
		bits[i] = packed.Test(uint(i))
	}
	return BinaryVector{bits: bits}, nil
}

// Dimensions returns the number of bits.
func (v BinaryVector) Dimensions() int { return len(v.bits) }

// Bools returns a copy of the bits.
func (v BinaryVector) Bools() []bool { return append([]bool(nil), v.bits...) }

// Count returns the number of set bits.
func (v BinaryVector) Count() int {
	n := 0
	for _, b := range v.bits {
		if b {
			n++
		}
	}
	return n
}

// Equal reports whether both vectors hold the same bits.
func (v BinaryVector) Equal(other BinaryVector) bool {
	if len(v.bits) != len(other.bits) {
		return false
	}
	for i := range v.bits {
		if v.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}

// CheckDimensions returns a *DimensionMismatchError unless v has exactly dim bits.
func (v BinaryVector) CheckDimensions(dim int) error {
	if len(v.bits) != dim {
		return &DimensionMismatchError{Expected: dim, Actual: len(v.bits)}
	}
	return nil
}

// Text returns the "[0,1,...]" form.
func (v BinaryVector) Text() string {
	var sb strings.Builder
	sb.Grow(1 + 2*len(v.bits))
	sb.WriteByte('[')
	for i, b := range v.bits {
		if i > 0 {
			sb.WriteByte(',')
		}
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func (v BinaryVector) String() string { return v.Text() }

// Words packs the bits into 64-bit words: bit i lands in bit i%64 of word
// i/64 and the last word is zero-padded.
func (v BinaryVector) Words() []uint64 {
	packed := bitset.New(uint(len(v.bits)))
	for i, b := range v.bits {
		if b {
			packed.Set(uint(i))
		}
	}
	words := make([]uint64, wordCount(len(v.bits)))
	copy(words, packed.Words())
	return words
}

// MarshalText implements encoding.TextMarshaler.
func (v BinaryVector) MarshalText() ([]byte, error) { return []byte(v.Text()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *BinaryVector) UnmarshalText(text []byte) error {
	parsed, err := ParseBinaryVector(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalBinary returns the u16 little-endian bit count followed by the
// packed little-endian words.
func (v BinaryVector) MarshalBinary() ([]byte, error) {
	if err := checkDenseRange(len(v.bits)); err != nil {
		return nil, err
	}
	words := v.Words()
	b := make([]byte, denseHeaderSize, denseHeaderSize+len(words)*8)
	le.PutUint16(b, uint16(len(v.bits)))
	for _, w := range words {
		b = le.AppendUint64(b, w)
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *BinaryVector) UnmarshalBinary(data []byte) error {
	decoded, err := DecodeBinaryVector(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// Value implements driver.Valuer using the text form.
func (v BinaryVector) Value() (driver.Value, error) { return v.Text(), nil }

// Scan implements sql.Scanner for text results.
func (v *BinaryVector) Scan(src any) error {
	switch x := src.(type) {
	case string:
		return v.UnmarshalText([]byte(x))
	case []byte:
		return v.UnmarshalText(x)
	default:
		return fmt.Errorf("vector: cannot scan %T into %s", src, binaryTypeName)
	}
}

func coerceBinary(value any) (BinaryVector, error) {
	switch x := value.(type) {
	case BinaryVector:
		return x, nil
	case *BinaryVector:
		if x != nil {
			return *x, nil
		}
	case []bool:
		return NewBinaryVector(x), nil
	}
	floats, err := flatten(binaryTypeName, value)
	if err != nil {
		return BinaryVector{}, err
	}
	bits := make([]bool, len(floats))
	for i, f := range floats {
		bits[i] = f != 0
	}
	return BinaryVector{bits: bits}, nil
}
