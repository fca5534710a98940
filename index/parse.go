package index

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type optionDocument struct {
	Indexing   indexingDocument    `toml:"indexing"`
	Optimizing *optimizingDocument `toml:"optimizing"`
}

type indexingDocument struct {
	Flat *kindDocument `toml:"flat"`
	Hnsw *kindDocument `toml:"hnsw"`
	Ivf  *kindDocument `toml:"ivf"`
}

type optimizingDocument struct {
	Threads *int `toml:"optimizing_threads"`
}

type kindDocument struct {
	Quantization   *quantizationDocument `toml:"quantization"`
	M              *int                  `toml:"m"`
	EfConstruction *int                  `toml:"ef_construction"`
	Nlist          *int                  `toml:"nlist"`
}

type quantizationDocument struct {
	Trivial *struct{}        `toml:"trivial"`
	Scalar  *struct{}        `toml:"scalar"`
	Product *productDocument `toml:"product"`
}

type productDocument struct {
	Ratio Ratio `toml:"ratio"`
}

// Parse decodes an options document produced by Dumps. Unknown keys, more
// than one index kind and fields that do not belong to the chosen kind are
// rejected, and the result is validated.
func Parse(s string) (Option, error) {
	var doc optionDocument
	md, err := toml.Decode(s, &doc)
	if err != nil {
		return Option{}, fmt.Errorf("index: failed to decode options: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Option{}, &ValidationError{Field: undecoded[0].String(), Value: s, Reason: "unknown key"}
	}

	var opt Option
	if doc.Optimizing != nil {
		opt.Threads = doc.Optimizing.Threads
	}
	kinds := 0
	if k := doc.Indexing.Flat; k != nil {
		kinds++
		if k.M != nil || k.EfConstruction != nil || k.Nlist != nil {
			return Option{}, &ValidationError{Field: "indexing.flat", Value: s, Reason: "flat takes no parameters besides quantization"}
		}
		q, err := k.Quantization.option()
		if err != nil {
			return Option{}, err
		}
		opt.Index = Flat{Quantization: q}
	}
	if k := doc.Indexing.Hnsw; k != nil {
		kinds++
		if k.Nlist != nil {
			return Option{}, &ValidationError{Field: "indexing.hnsw.nlist", Value: *k.Nlist, Reason: "not an hnsw parameter"}
		}
		q, err := k.Quantization.option()
		if err != nil {
			return Option{}, err
		}
		opt.Index = Hnsw{M: k.M, EfConstruction: k.EfConstruction, Quantization: q}
	}
	if k := doc.Indexing.Ivf; k != nil {
		kinds++
		if k.M != nil || k.EfConstruction != nil {
			return Option{}, &ValidationError{Field: "indexing.ivf", Value: s, Reason: "ivf takes only nlist and quantization"}
		}
		q, err := k.Quantization.option()
		if err != nil {
			return Option{}, err
		}
		opt.Index = Ivf{Nlist: k.Nlist, Quantization: q}
	}
	if kinds > 1 {
		return Option{}, &ValidationError{Field: "indexing", Value: kinds, Reason: "exactly one index kind is allowed"}
	}
	if err := opt.Validate(); err != nil {
		return Option{}, err
	}
	return opt, nil
}

func (q *quantizationDocument) option() (*Quantization, error) {
	if q == nil {
		return nil, nil
	}
	var out []Quantization
	if q.Trivial != nil {
		out = append(out, Quantization{Type: Trivial})
	}
	if q.Scalar != nil {
		out = append(out, Quantization{Type: Scalar})
	}
	if q.Product != nil {
		out = append(out, Quantization{Type: Product, Ratio: q.Product.Ratio})
	}
	if len(out) != 1 {
		return nil, &ValidationError{Field: "quantization", Value: len(out), Reason: "exactly one quantization type is allowed"}
	}
	return &out[0], nil
}
