package index

import (
	"errors"
	"fmt"
)

// QuantizationType selects how the index compresses stored components.
type QuantizationType string

const (
	Trivial QuantizationType = "trivial"
	Scalar  QuantizationType = "scalar"
	Product QuantizationType = "product"
)

// Ratio is the product quantization compression ratio.
type Ratio string

const (
	X4  Ratio = "x4"
	X8  Ratio = "x8"
	X16 Ratio = "x16"
	X32 Ratio = "x32"
	X64 Ratio = "x64"
)

var ratios = map[Ratio]bool{X4: true, X8: true, X16: true, X32: true, X64: true}

// ErrDelimiter is returned when a rendered options document would terminate
// its dollar-quoted literal early.
var ErrDelimiter = errors.New("index: options document contains the $$ delimiter")

// ValidationError reports an option field outside its allowed values.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("index: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Int returns a pointer to n, for optional integer fields.
func Int(n int) *int { return &n }

// Quantization describes component compression. An empty Type means
// trivial; Ratio is only meaningful for product quantization.
type Quantization struct {
	Type  QuantizationType
	Ratio Ratio
}

// Dump returns {quantization: {<type>: {...}}}.
func (q Quantization) Dump() *Document {
	body := NewDocument()
	typ := q.Type
	switch typ {
	case "", Trivial:
		typ = Trivial
	case Scalar:
	default:
		typ = Product
		if q.Ratio != "" {
			body.SetString("ratio", string(q.Ratio))
		}
	}
	return NewDocument().SetTable("quantization", NewDocument().SetTable(string(typ), body))
}

// Validate checks the type and ratio enums.
func (q Quantization) Validate() error {
	switch q.Type {
	case "", Trivial, Scalar:
		if q.Ratio != "" {
			return &ValidationError{Field: "ratio", Value: q.Ratio, Reason: "only allowed with product quantization"}
		}
	case Product:
		if q.Ratio != "" && !ratios[q.Ratio] {
			return &ValidationError{Field: "ratio", Value: q.Ratio, Reason: "must be one of x4, x8, x16, x32, x64"}
		}
	default:
		return &ValidationError{Field: "quantization", Value: q.Type, Reason: "must be one of trivial, scalar, product"}
	}
	return nil
}

// Kind is one of Flat, Hnsw or Ivf.
type Kind interface {
	// Name is the key the kind is dumped under.
	Name() string
	// Dump returns {<name>: {...}} with only the fields that are set.
	Dump() *Document
	Validate() error
}

// Flat is an exhaustive-scan index.
type Flat struct {
	Quantization *Quantization
}

func (Flat) Name() string { return "flat" }

func (f Flat) Dump() *Document {
	child := NewDocument()
	if f.Quantization != nil {
		child.Update(f.Quantization.Dump())
	}
	return NewDocument().SetTable(f.Name(), child)
}

func (f Flat) Validate() error { return validateQuantization(f.Quantization) }

// Hnsw is a hierarchical navigable small world graph index.
type Hnsw struct {
	M              *int
	EfConstruction *int
	Quantization   *Quantization
}

func (Hnsw) Name() string { return "hnsw" }

func (h Hnsw) Dump() *Document {
	child := NewDocument()
	if h.Quantization != nil {
		child.Update(h.Quantization.Dump())
	}
	if h.M != nil {
		child.SetInt("m", *h.M)
	}
	if h.EfConstruction != nil {
		child.SetInt("ef_construction", *h.EfConstruction)
	}
	return NewDocument().SetTable(h.Name(), child)
}

func (h Hnsw) Validate() error {
	if err := validatePositive("m", h.M); err != nil {
		return err
	}
	if err := validatePositive("ef_construction", h.EfConstruction); err != nil {
		return err
	}
	return validateQuantization(h.Quantization)
}

// Ivf is an inverted file index over nlist clusters.
type Ivf struct {
	Nlist        *int
	Quantization *Quantization
}

func (Ivf) Name() string { return "ivf" }

func (i Ivf) Dump() *Document {
	child := NewDocument()
	if i.Quantization != nil {
		child.Update(i.Quantization.Dump())
	}
	if i.Nlist != nil {
		child.SetInt("nlist", *i.Nlist)
	}
	return NewDocument().SetTable(i.Name(), child)
}

func (i Ivf) Validate() error {
	if err := validatePositive("nlist", i.Nlist); err != nil {
		return err
	}
	return validateQuantization(i.Quantization)
}

// Option is the complete index configuration. A nil Threads leaves the
// optimizer thread count to the server.
type Option struct {
	Index   Kind
	Threads *int
}

// Dump returns {indexing: <kind>} plus {optimizing: {optimizing_threads: n}}
// when Threads is set.
func (o Option) Dump() *Document {
	indexing := NewDocument()
	if o.Index != nil {
		indexing = o.Index.Dump()
	}
	doc := NewDocument().SetTable("indexing", indexing)
	if o.Threads != nil {
		doc.SetTable("optimizing", NewDocument().SetInt("optimizing_threads", *o.Threads))
	}
	return doc
}

// Dumps renders Dump as TOML.
func (o Option) Dumps() string { return o.Dump().Encode() }

// Validate checks that an index kind is set and every set field is in range.
func (o Option) Validate() error {
	if o.Index == nil {
		return &ValidationError{Field: "index", Value: nil, Reason: "an index kind is required"}
	}
	if err := validatePositive("threads", o.Threads); err != nil {
		return err
	}
	return o.Index.Validate()
}

func validatePositive(field string, v *int) error {
	if v != nil && *v <= 0 {
		return &ValidationError{Field: field, Value: *v, Reason: "must be positive"}
	}
	return nil
}

func validateQuantization(q *Quantization) error {
	if q == nil {
		return nil
	}
	return q.Validate()
}
