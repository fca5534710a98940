package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	options := []Option{
		{Index: Flat{}, Threads: Int(1)},
		{Index: Hnsw{M: Int(1), EfConstruction: Int(2), Quantization: &Quantization{Type: Product, Ratio: X4}}},
		{Index: Ivf{Nlist: Int(100), Quantization: &Quantization{Type: Scalar}}, Threads: Int(3)},
		{Index: Flat{Quantization: &Quantization{Type: Trivial}}},
		{Index: Hnsw{Quantization: &Quantization{Type: Product}}},
	}
	for _, opt := range options {
		text := opt.Dumps()
		t.Run(text, func(t *testing.T) {
			parsed, err := Parse(text)
			require.NoError(t, err)
			assert.Equal(t, opt, parsed)
			assert.Equal(t, text, parsed.Dumps())
		})
	}
}

func TestParse_Handwritten(t *testing.T) {
	parsed, err := Parse(`
[indexing.hnsw]
m = 16
ef_construction = 64
`)
	require.NoError(t, err)
	assert.Equal(t, Option{Index: Hnsw{M: Int(16), EfConstruction: Int(64)}}, parsed)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":        "[indexing.hnsw]\nlayers = 3\n",
		"two kinds":          "[indexing.flat]\n\n[indexing.hnsw]\n",
		"no kind":            "[optimizing]\noptimizing_threads = 1\n",
		"foreign field":      "[indexing.flat]\nm = 4\n",
		"nlist on hnsw":      "[indexing.hnsw]\nnlist = 4\n",
		"two quantizations":  "[indexing.ivf.quantization.trivial]\n\n[indexing.ivf.quantization.scalar]\n",
		"empty quantization": "[indexing.ivf.quantization]\n",
		"bad ratio":          "[indexing.hnsw.quantization.product]\nratio = \"x5\"\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(text)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	_, err := Parse("[indexing.hnsw\n")
	assert.Error(t, err)
	_, err = Parse("[indexing.hnsw]\nm = \"four\"\n")
	assert.Error(t, err)
}
