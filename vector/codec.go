package vector

import (
	"database/sql/driver"
	"fmt"

	"github.com/x448/float16"
)

// Codec adapts one vector type to its text and binary wire forms. It is the
// whole contract that driver and ORM adapters depend on: a nil value passes
// through every entry point as nil, and no adapter performs its own numeric
// coercion.
type Codec[T any] struct {
	// TypeName is the extension's SQL type name.
	TypeName string

	coerce func(value any) (T, error)
	dims   func(v T) int
	text   func(v T) (string, error)
	binary func(v T) ([]byte, error)
	parse  func(s string) (T, error)
	decode func(b []byte) (T, error)
}

var (
	// Vectors adapts Vector (SQL type vector).
	Vectors = Codec[Vector]{
		TypeName: float32Elements.typeName,
		coerce:   coerceDense[float32],
		dims:     Vector.Dimensions,
		text:     func(v Vector) (string, error) { return v.Text(), nil },
		binary:   Vector.MarshalBinary,
		parse:    ParseVector,
		decode:   DecodeVector,
	}

	// Float16Vectors adapts Float16Vector (SQL type vecf16).
	Float16Vectors = Codec[Float16Vector]{
		TypeName: float16Elements.typeName,
		coerce:   coerceDense[float16.Float16],
		dims:     Float16Vector.Dimensions,
		text:     func(v Float16Vector) (string, error) { return v.Text(), nil },
		binary:   Float16Vector.MarshalBinary,
		parse:    ParseFloat16Vector,
		decode:   DecodeFloat16Vector,
	}

	// BinaryVectors adapts BinaryVector (SQL type bvector).
	BinaryVectors = Codec[BinaryVector]{
		TypeName: binaryTypeName,
		coerce:   coerceBinary,
		dims:     BinaryVector.Dimensions,
		text:     func(v BinaryVector) (string, error) { return v.Text(), nil },
		binary:   BinaryVector.MarshalBinary,
		parse:    ParseBinaryVector,
		decode:   DecodeBinaryVector,
	}

	// SparseVectors adapts SparseVector (SQL type svector).
	SparseVectors = Codec[SparseVector]{
		TypeName: sparseTypeName,
		coerce:   coerceSparse,
		dims:     SparseVector.Dimensions,
		text: func(v SparseVector) (string, error) {
			b, err := v.MarshalText()
			return string(b), err
		},
		binary: SparseVector.MarshalBinary,
		parse:  ParseSparseVector,
		decode: DecodeSparseVector,
	}
)

// Coerce converts value into T, accepting T, *T and the native sequences
// each type documents.
func (c Codec[T]) Coerce(value any) (T, error) {
	return c.coerce(value)
}

// Dimensions returns the dimension of v.
func (c Codec[T]) Dimensions(v T) int { return c.dims(v) }

// ToDB returns the text form of value as a string. When dim > 0 the value
// must have exactly dim dimensions; dim <= 0 leaves the width unchecked.
// A nil value or nil *T is returned as nil.
func (c Codec[T]) ToDB(value any, dim int) (driver.Value, error) {
	if isNull[T](value) {
		return nil, nil
	}
	v, err := c.coerce(value)
	if err != nil {
		return nil, err
	}
	if dim > 0 {
		if actual := c.dims(v); actual != dim {
			return nil, &DimensionMismatchError{Expected: dim, Actual: actual}
		}
	}
	return c.text(v)
}

// ToDBBinary returns the binary form of value as a []byte. A nil value or
// nil *T is returned as nil.
func (c Codec[T]) ToDBBinary(value any) (driver.Value, error) {
	if isNull[T](value) {
		return nil, nil
	}
	v, err := c.coerce(value)
	if err != nil {
		return nil, err
	}
	return c.binary(v)
}

// FromDB parses a text result. src may be a string, []byte, T or *T.
func (c Codec[T]) FromDB(src any) (*T, error) {
	switch x := src.(type) {
	case nil:
		return nil, nil
	case T:
		return &x, nil
	case *T:
		return x, nil
	case string:
		return c.wrap(c.parse(x))
	case []byte:
		return c.wrap(c.parse(string(x)))
	default:
		return nil, fmt.Errorf("vector: cannot load %s text from %T", c.TypeName, src)
	}
}

// FromDBBinary decodes a binary result. src may be a []byte, T or *T.
func (c Codec[T]) FromDBBinary(src any) (*T, error) {
	switch x := src.(type) {
	case nil:
		return nil, nil
	case T:
		return &x, nil
	case *T:
		return x, nil
	case []byte:
		return c.wrap(c.decode(x))
	default:
		return nil, fmt.Errorf("vector: cannot load %s binary from %T", c.TypeName, src)
	}
}

func isNull[T any](value any) bool {
	if value == nil {
		return true
	}
	p, ok := value.(*T)
	return ok && p == nil
}

func (c Codec[T]) wrap(v T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	return &v, nil
}
