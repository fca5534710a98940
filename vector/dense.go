package vector

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strings"

	"github.com/x448/float16"
)

// Element is a dense vector component type.
type Element interface {
	float32 | float16.Float16
}

// elementCodec describes how one element kind is laid out on the wire.
type elementCodec[E Element] struct {
	typeName string
	width    int
	put      func(b []byte, v E)
	get      func(b []byte) E
	narrow   func(f float32) E
	widen    func(v E) float32
}

var float32Elements = elementCodec[float32]{
	typeName: "vector",
	width:    4,
	put:      func(b []byte, v float32) { le.PutUint32(b, math.Float32bits(v)) },
	get:      func(b []byte) float32 { return math.Float32frombits(le.Uint32(b)) },
	narrow:   func(f float32) float32 { return f },
	widen:    func(v float32) float32 { return v },
}

var float16Elements = elementCodec[float16.Float16]{
	typeName: "vecf16",
	width:    2,
	put:      func(b []byte, v float16.Float16) { le.PutUint16(b, v.Bits()) },
	get:      func(b []byte) float16.Float16 { return float16.Frombits(le.Uint16(b)) },
	narrow:   float16.Fromfloat32,
	widen:    func(v float16.Float16) float32 { return v.Float32() },
}

func elementsOf[E Element]() *elementCodec[E] {
	var zero E
	if _, ok := any(zero).(float32); ok {
		return any(&float32Elements).(*elementCodec[E])
	}
	return any(&float16Elements).(*elementCodec[E])
}

// Dense is a fixed-width vector whose every component is materialized.
// The zero value is an empty vector.
type Dense[E Element] struct {
	values []E
}

// Vector is a dense single-precision vector (the extension's vector type).
type Vector = Dense[float32]

// Float16Vector is a dense half-precision vector (the extension's vecf16 type).
type Float16Vector = Dense[float16.Float16]

// NewVector returns a Vector holding a copy of values.
func NewVector(values []float32) Vector {
	return Vector{values: append([]float32(nil), values...)}
}

// NewFloat16Vector narrows values to half precision, rounding to nearest even.
func NewFloat16Vector(values []float32) Float16Vector {
	out := make([]float16.Float16, len(values))
	for i, v := range values {
		out[i] = float16.Fromfloat32(v)
	}
	return Float16Vector{values: out}
}

// NewFloat16VectorFromBits returns a Float16Vector holding a copy of values.
func NewFloat16VectorFromBits(values []float16.Float16) Float16Vector {
	return Float16Vector{values: append([]float16.Float16(nil), values...)}
}

// ParseVector decodes the text form "[v1,v2,...]".
func ParseVector(s string) (Vector, error) { return parseDense[float32](s) }

// ParseFloat16Vector decodes the text form "[v1,v2,...]".
func ParseFloat16Vector(s string) (Float16Vector, error) { return parseDense[float16.Float16](s) }

// DecodeVector decodes the binary form: u16 count then count float32 values.
func DecodeVector(b []byte) (Vector, error) { return decodeDense[float32](b) }

// DecodeFloat16Vector decodes the binary form: u16 count then count float16 values.
func DecodeFloat16Vector(b []byte) (Float16Vector, error) { return decodeDense[float16.Float16](b) }

// Dimensions returns the number of components.
func (v Dense[E]) Dimensions() int { return len(v.values) }

// Values returns a copy of the components at their native width.
func (v Dense[E]) Values() []E { return append([]E(nil), v.values...) }

// Float32s returns the components widened to float32.
func (v Dense[E]) Float32s() []float32 {
	codec := elementsOf[E]()
	out := make([]float32, len(v.values))
	for i, e := range v.values {
		out[i] = codec.widen(e)
	}
	return out
}

// Equal reports whether both vectors hold bit-identical components.
func (v Dense[E]) Equal(other Dense[E]) bool {
	if len(v.values) != len(other.values) {
		return false
	}
	codec := elementsOf[E]()
	for i := range v.values {
		if math.Float32bits(codec.widen(v.values[i])) != math.Float32bits(codec.widen(other.values[i])) {
			return false
		}
	}
	return true
}

// CheckDimensions returns a *DimensionMismatchError unless v has exactly dim components.
func (v Dense[E]) CheckDimensions(dim int) error {
	if len(v.values) != dim {
		return &DimensionMismatchError{Expected: dim, Actual: len(v.values)}
	}
	return nil
}

// Text returns the "[v1,v2,...]" form.
func (v Dense[E]) Text() string {
	codec := elementsOf[E]()
	var sb strings.Builder
	sb.Grow(2 + len(v.values)*8)
	sb.WriteByte('[')
	for i, e := range v.values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formatFloat(float64(codec.widen(e)), 32))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (v Dense[E]) String() string { return v.Text() }

// MarshalText implements encoding.TextMarshaler.
func (v Dense[E]) MarshalText() ([]byte, error) { return []byte(v.Text()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Dense[E]) UnmarshalText(text []byte) error {
	parsed, err := parseDense[E](string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalBinary returns the u16 little-endian count followed by the raw
// little-endian components.
func (v Dense[E]) MarshalBinary() ([]byte, error) {
	if err := checkDenseRange(len(v.values)); err != nil {
		return nil, err
	}
	codec := elementsOf[E]()
	b := make([]byte, denseHeaderSize+len(v.values)*codec.width)
	le.PutUint16(b, uint16(len(v.values)))
	for i, e := range v.values {
		codec.put(b[denseHeaderSize+i*codec.width:], e)
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Dense[E]) UnmarshalBinary(data []byte) error {
	decoded, err := decodeDense[E](data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// Value implements driver.Valuer using the text form.
func (v Dense[E]) Value() (driver.Value, error) { return v.Text(), nil }

// Scan implements sql.Scanner for text results.
func (v *Dense[E]) Scan(src any) error {
	switch x := src.(type) {
	case string:
		return v.UnmarshalText([]byte(x))
	case []byte:
		return v.UnmarshalText(x)
	default:
		return fmt.Errorf("vector: cannot scan %T into %s", src, elementsOf[E]().typeName)
	}
}

func parseDense[E Element](s string) (Dense[E], error) {
	codec := elementsOf[E]()
	interior, err := delimited(codec.typeName, s, '[', ']')
	if err != nil {
		return Dense[E]{}, err
	}
	parts := tokens(interior)
	values := make([]E, len(parts))
	for i, tok := range parts {
		f, err := parseFloat32(codec.typeName, s, tok)
		if err != nil {
			return Dense[E]{}, err
		}
		values[i] = codec.narrow(f)
	}
	return Dense[E]{values: values}, nil
}

func decodeDense[E Element](b []byte) (Dense[E], error) {
	codec := elementsOf[E]()
	n, err := denseCount(codec.typeName, b)
	if err != nil {
		return Dense[E]{}, err
	}
	if want := denseHeaderSize + n*codec.width; len(b) < want {
		return Dense[E]{}, truncated(codec.typeName, want, len(b))
	}
	values := make([]E, n)
	for i := range values {
		values[i] = codec.get(b[denseHeaderSize+i*codec.width:])
	}
	return Dense[E]{values: values}, nil
}

// coerceDense converts any supported Go value into a Dense[E].
func coerceDense[E Element](value any) (Dense[E], error) {
	codec := elementsOf[E]()
	switch x := value.(type) {
	case Dense[E]:
		return x, nil
	case *Dense[E]:
		if x != nil {
			return *x, nil
		}
	case []E:
		return Dense[E]{values: append([]E(nil), x...)}, nil
	}
	floats, err := flatten(codec.typeName, value)
	if err != nil {
		return Dense[E]{}, err
	}
	values := make([]E, len(floats))
	for i, f := range floats {
		values[i] = codec.narrow(float32(f))
	}
	return Dense[E]{values: values}, nil
}
