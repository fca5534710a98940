package vector

import (
	"database/sql/driver"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

const sparseTypeName = "svector"

// MaxSparseDimensions is the largest dimension the extension accepts for
// sparse vectors.
const MaxSparseDimensions = 1<<20 - 1

// SparseVector is a vector of logical length Dimensions() that stores only
// its non-zero components as ascending (index, value) pairs (the extension's
// svector type). The zero value is an empty vector.
type SparseVector struct {
	dim     int
	indices []uint32
	values  []float32
}

// COO is a coordinate-format sparse array: Coords[k] holds the coordinates
// along axis k of every stored element and Data the element values.
type COO struct {
	Shape  []int
	Coords [][]int
	Data   []float32
}

// SparseSource selects how NewSparseVector builds a SparseVector. It is
// implemented by FromCOO, FromMap, FromDense and FromParts only.
type SparseSource interface {
	sparseSource()
}

// FromCOO builds from an external sparse array of shape (n,) or (1,n). The
// dimension comes from the shape, so Dim must be nil. Stored elements are
// taken as given.
type FromCOO struct {
	Array COO
	Dim   *int
}

// FromMap builds from index -> value entries. Dim is required. Zero values
// are dropped and the rest sorted by index.
type FromMap struct {
	Entries map[int]float32
	Dim     *int
}

// FromDense builds from every component of a dense sequence. The dimension
// is its length, so Dim must be nil. Zero values are dropped.
type FromDense struct {
	Values []float32
	Dim    *int
}

// FromParts builds from parallel indices and values the caller asserts are
// already canonical. Nothing is validated, elided or sorted.
type FromParts struct {
	Dim     int
	Indices []uint32
	Values  []float32
}

func (FromCOO) sparseSource()   {}
func (FromMap) sparseSource()   {}
func (FromDense) sparseSource() {}
func (FromParts) sparseSource() {}

// Dim returns a pointer to d, for the optional Dim fields of SparseSource variants.
func Dim(d int) *int { return &d }

// NewSparseVector builds a SparseVector from src.
func NewSparseVector(src SparseSource) (SparseVector, error) {
	switch s := src.(type) {
	case FromCOO:
		if s.Dim != nil {
			return SparseVector{}, &ExtraArgumentError{Source: "sparse array", Dim: *s.Dim}
		}
		return fromCOO(s.Array)
	case FromMap:
		if s.Dim == nil {
			return SparseVector{}, &MissingArgumentError{Source: "map"}
		}
		return fromMap(s.Entries, *s.Dim)
	case FromDense:
		if s.Dim != nil {
			return SparseVector{}, &ExtraArgumentError{Source: "dense values", Dim: *s.Dim}
		}
		return fromDense(s.Values), nil
	case FromParts:
		return SparseFromParts(s.Dim, s.Indices, s.Values), nil
	default:
		return SparseVector{}, &TypeError{Type: sparseTypeName, Source: src}
	}
}

// SparseFromParts returns a SparseVector over copies of indices and values
// without validating, eliding zeros or sorting.
func SparseFromParts(dim int, indices []uint32, values []float32) SparseVector {
	return SparseVector{
		dim:     dim,
		indices: append([]uint32(nil), indices...),
		values:  append([]float32(nil), values...),
	}
}

func fromCOO(a COO) (SparseVector, error) {
	var dim int
	var coords []int
	switch {
	case len(a.Shape) == 1:
		dim = a.Shape[0]
		if len(a.Coords) > 0 {
			coords = a.Coords[0]
		}
	case len(a.Shape) == 2 && a.Shape[0] == 1:
		dim = a.Shape[1]
		if len(a.Coords) > 1 {
			coords = a.Coords[1]
		}
	default:
		return SparseVector{}, &ShapeError{Shape: append([]int(nil), a.Shape...)}
	}
	if dim < 0 {
		return SparseVector{}, &DimensionRangeError{Dim: dim, Max: MaxSparseDimensions}
	}
	indices := make([]uint32, len(coords))
	for i, c := range coords {
		if c < 0 || c >= dim {
			return SparseVector{}, &IndexRangeError{Index: c, Dim: dim}
		}
		indices[i] = uint32(c)
	}
	return SparseVector{dim: dim, indices: indices, values: append([]float32(nil), a.Data...)}, nil
}

// Zero elision drops exact zeros only (including -0); NaN and values close
// to zero are stored.
func fromMap(entries map[int]float32, dim int) (SparseVector, error) {
	if dim < 0 {
		return SparseVector{}, &DimensionRangeError{Dim: dim, Max: MaxSparseDimensions}
	}
	keys := make([]int, 0, len(entries))
	for k, v := range entries {
		if k < 0 || k >= dim {
			return SparseVector{}, &IndexRangeError{Index: k, Dim: dim}
		}
		if v != 0 {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	out := SparseVector{dim: dim, indices: make([]uint32, len(keys)), values: make([]float32, len(keys))}
	for i, k := range keys {
		out.indices[i] = uint32(k)
		out.values[i] = entries[k]
	}
	return out, nil
}

func fromDense(values []float32) SparseVector {
	out := SparseVector{dim: len(values)}
	for i, v := range values {
		if v != 0 {
			out.indices = append(out.indices, uint32(i))
			out.values = append(out.values, v)
		}
	}
	return out
}

// ParseSparseVector decodes the text form "{i:v,...}/dim".
func ParseSparseVector(s string) (SparseVector, error) {
	slash := strings.LastIndexByte(s, '/')
	if slash == -1 {
		return SparseVector{}, &ParseError{Type: sparseTypeName, Input: s, Reason: "missing /dim suffix"}
	}
	dim, err := strconv.Atoi(strings.TrimSpace(s[slash+1:]))
	if err != nil {
		return SparseVector{}, &ParseError{Type: sparseTypeName, Input: s, Reason: "invalid dimension", cause: err}
	}
	if dim < 0 {
		return SparseVector{}, &ParseError{Type: sparseTypeName, Input: s, Reason: "negative dimension"}
	}
	interior, err := delimited(sparseTypeName, s[:slash], '{', '}')
	if err != nil {
		return SparseVector{}, &ParseError{Type: sparseTypeName, Input: s, Reason: "missing {...} delimiters"}
	}
	parts := tokens(interior)
	out := SparseVector{dim: dim, indices: make([]uint32, len(parts)), values: make([]float32, len(parts))}
	for i, tok := range parts {
		idx, val, ok := strings.Cut(tok, ":")
		if !ok {
			return SparseVector{}, &ParseError{Type: sparseTypeName, Input: s, Reason: "invalid pair " + strconv.Quote(tok)}
		}
		n, err := strconv.ParseUint(strings.TrimSpace(idx), 10, 32)
		if err != nil {
			return SparseVector{}, &ParseError{Type: sparseTypeName, Input: s, Reason: "invalid index " + strconv.Quote(idx), cause: err}
		}
		f, err := parseFloat32(sparseTypeName, s, strings.TrimSpace(val))
		if err != nil {
			return SparseVector{}, err
		}
		out.indices[i] = uint32(n)
		out.values[i] = f
	}
	return out, nil
}

// DecodeSparseVector decodes the binary form: u32 dim, u32 nnz, nnz u32
// indices, then nnz float32 values, all little-endian.
func DecodeSparseVector(b []byte) (SparseVector, error) {
	if len(b) < sparseHeaderSize {
		return SparseVector{}, truncated(sparseTypeName, sparseHeaderSize, len(b))
	}
	dim := le.Uint32(b)
	n := int(le.Uint32(b[4:]))
	if want := sparseHeaderSize + n*8; n < 0 || len(b) < want {
		return SparseVector{}, truncated(sparseTypeName, want, len(b))
	}
	out := SparseVector{dim: int(dim), indices: make([]uint32, n), values: make([]float32, n)}
	valuesAt := sparseHeaderSize + n*4
	for i := 0; i < n; i++ {
		out.indices[i] = le.Uint32(b[sparseHeaderSize+i*4:])
		out.values[i] = math.Float32frombits(le.Uint32(b[valuesAt+i*4:]))
	}
	return out, nil
}

// Dimensions returns the logical length.
func (v SparseVector) Dimensions() int { return v.dim }

// Indices returns a copy of the stored indices.
func (v SparseVector) Indices() []uint32 { return append([]uint32(nil), v.indices...) }

// Values returns a copy of the stored values.
func (v SparseVector) Values() []float32 { return append([]float32(nil), v.values...) }

// Dense materializes all Dimensions() components, zero-filled.
func (v SparseVector) Dense() []float32 {
	out := make([]float32, max(v.dim, 0))
	for i := 0; i < v.pairs(); i++ {
		if int(v.indices[i]) < v.dim {
			out[v.indices[i]] = v.values[i]
		}
	}
	return out
}

// COO exports v as a (1, dim) coordinate array.
func (v SparseVector) COO() COO {
	n := v.pairs()
	rows := make([]int, n)
	cols := make([]int, n)
	for i := 0; i < n; i++ {
		cols[i] = int(v.indices[i])
	}
	return COO{
		Shape:  []int{1, v.dim},
		Coords: [][]int{rows, cols},
		Data:   append([]float32(nil), v.values[:n]...),
	}
}

// Validate checks the canonical form: equal lengths, indices strictly
// ascending and below the dimension, dimension within the server limit.
func (v SparseVector) Validate() error {
	if v.dim < 0 || v.dim > MaxSparseDimensions {
		return &DimensionRangeError{Dim: v.dim, Max: MaxSparseDimensions}
	}
	if len(v.indices) != len(v.values) {
		return &LengthMismatchError{Indices: len(v.indices), Values: len(v.values)}
	}
	for i, idx := range v.indices {
		if int(idx) >= v.dim {
			return &IndexRangeError{Index: int(idx), Dim: v.dim}
		}
		if i > 0 && idx <= v.indices[i-1] {
			return fmt.Errorf("%w: indices not strictly ascending at position %d", ErrInvalidVector, i)
		}
	}
	return nil
}

// Equal reports whether both vectors share dimension and stored pairs.
func (v SparseVector) Equal(other SparseVector) bool {
	if v.dim != other.dim || len(v.indices) != len(other.indices) || len(v.values) != len(other.values) {
		return false
	}
	for i := range v.indices {
		if v.indices[i] != other.indices[i] {
			return false
		}
	}
	for i := range v.values {
		if math.Float32bits(v.values[i]) != math.Float32bits(other.values[i]) {
			return false
		}
	}
	return true
}

// CheckDimensions returns a *DimensionMismatchError unless v has dimension dim.
func (v SparseVector) CheckDimensions(dim int) error {
	if v.dim != dim {
		return &DimensionMismatchError{Expected: dim, Actual: v.dim}
	}
	return nil
}

// Text returns the "{i:v,...}/dim" form.
func (v SparseVector) Text() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i := 0; i < v.pairs(); i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(v.indices[i]), 10))
		sb.WriteByte(':')
		sb.WriteString(formatFloat(float64(v.values[i]), 32))
	}
	sb.WriteString("}/")
	sb.WriteString(strconv.Itoa(v.dim))
	return sb.String()
}

func (v SparseVector) String() string { return v.Text() }

// MarshalText implements encoding.TextMarshaler.
func (v SparseVector) MarshalText() ([]byte, error) {
	if len(v.indices) != len(v.values) {
		return nil, &LengthMismatchError{Indices: len(v.indices), Values: len(v.values)}
	}
	return []byte(v.Text()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *SparseVector) UnmarshalText(text []byte) error {
	parsed, err := ParseSparseVector(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalBinary returns u32 dim, u32 nnz, the index block and the value
// block, all little-endian.
func (v SparseVector) MarshalBinary() ([]byte, error) {
	if len(v.indices) != len(v.values) {
		return nil, &LengthMismatchError{Indices: len(v.indices), Values: len(v.values)}
	}
	n := len(v.indices)
	b := make([]byte, 0, sparseHeaderSize+n*8)
	b = le.AppendUint32(b, uint32(v.dim))
	b = le.AppendUint32(b, uint32(n))
	for _, idx := range v.indices {
		b = le.AppendUint32(b, idx)
	}
	for _, val := range v.values {
		b = le.AppendUint32(b, math.Float32bits(val))
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *SparseVector) UnmarshalBinary(data []byte) error {
	decoded, err := DecodeSparseVector(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// Value implements driver.Valuer using the text form.
func (v SparseVector) Value() (driver.Value, error) {
	text, err := v.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// Scan implements sql.Scanner for text results.
func (v *SparseVector) Scan(src any) error {
	switch x := src.(type) {
	case string:
		return v.UnmarshalText([]byte(x))
	case []byte:
		return v.UnmarshalText(x)
	default:
		return fmt.Errorf("vector: cannot scan %T into %s", src, sparseTypeName)
	}
}

func (v SparseVector) pairs() int {
	return min(len(v.indices), len(v.values))
}

func coerceSparse(value any) (SparseVector, error) {
	switch x := value.(type) {
	case SparseVector:
		return x, nil
	case *SparseVector:
		if x != nil {
			return *x, nil
		}
	case SparseSource:
		return NewSparseVector(x)
	case COO:
		return NewSparseVector(FromCOO{Array: x})
	case map[int]float32:
		return NewSparseVector(FromMap{Entries: x})
	case []float32:
		return NewSparseVector(FromDense{Values: x})
	}
	floats, err := flatten(sparseTypeName, value)
	if err != nil {
		return SparseVector{}, err
	}
	values := make([]float32, len(floats))
	for i, f := range floats {
		values[i] = float32(f)
	}
	return NewSparseVector(FromDense{Values: values})
}
