package index

import (
	"strings"

	"github.com/lib/pq"
)

// OpClass is the operator class an index is built for. It fixes both the
// column type and the distance the index accelerates.
type OpClass string

const (
	VectorL2Ops       OpClass = "vector_l2_ops"
	VectorDotOps      OpClass = "vector_dot_ops"
	VectorCosOps      OpClass = "vector_cos_ops"
	Vecf16L2Ops       OpClass = "vecf16_l2_ops"
	Vecf16DotOps      OpClass = "vecf16_dot_ops"
	Vecf16CosOps      OpClass = "vecf16_cos_ops"
	SvectorL2Ops      OpClass = "svector_l2_ops"
	SvectorDotOps     OpClass = "svector_dot_ops"
	SvectorCosOps     OpClass = "svector_cos_ops"
	BvectorL2Ops      OpClass = "bvector_l2_ops"
	BvectorDotOps     OpClass = "bvector_dot_ops"
	BvectorCosOps     OpClass = "bvector_cos_ops"
	BvectorJaccardOps OpClass = "bvector_jaccard_ops"
)

// Operator is a distance operator usable in ORDER BY.
type Operator string

const (
	L2Distance      Operator = "<->"
	MaxInnerProduct Operator = "<#>"
	CosineDistance  Operator = "<=>"
	JaccardDistance Operator = "<~>"
)

// Operator returns the distance operator an index of this class serves.
func (c OpClass) Operator() Operator {
	switch {
	case strings.HasSuffix(string(c), "_l2_ops"):
		return L2Distance
	case strings.HasSuffix(string(c), "_dot_ops"):
		return MaxInnerProduct
	case strings.HasSuffix(string(c), "_cos_ops"):
		return CosineDistance
	case strings.HasSuffix(string(c), "_jaccard_ops"):
		return JaccardDistance
	}
	return ""
}

// CreateStatement renders a CREATE INDEX statement that embeds opt.Dumps()
// in a dollar-quoted options literal. An empty name lets the server pick one.
func CreateStatement(name, table, column string, class OpClass, opt Option) (string, error) {
	options := opt.Dumps()
	if strings.Contains(options, "$$") {
		return "", ErrDelimiter
	}
	if err := opt.Validate(); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("CREATE INDEX ")
	if name != "" {
		sb.WriteString(pq.QuoteIdentifier(name))
		sb.WriteByte(' ')
	}
	sb.WriteString("ON ")
	sb.WriteString(pq.QuoteIdentifier(table))
	sb.WriteString(" USING vectors (")
	sb.WriteString(pq.QuoteIdentifier(column))
	sb.WriteByte(' ')
	sb.WriteString(string(class))
	sb.WriteString(") WITH (options = $$")
	sb.WriteString(options)
	sb.WriteString("$$);")
	return sb.String(), nil
}
