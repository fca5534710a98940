package collection

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter is a SQL boolean expression over the record columns (id, text,
// meta, embedding). Expr uses ? for each of Args; write ?? for a literal
// question mark such as the jsonb key-exists operator.
type Filter struct {
	Expr string
	Args []any
}

// Where returns a Filter for expr bound to args.
func Where(expr string, args ...any) *Filter {
	return &Filter{Expr: expr, Args: args}
}

// bind rewrites ? placeholders to $n starting after offset existing
// parameters. Question marks inside single-quoted literals are kept.
func (f *Filter) bind(offset int) (string, []any, error) {
	var sb strings.Builder
	sb.Grow(len(f.Expr) + 4)
	n := 0
	quoted := false
	for i := 0; i < len(f.Expr); i++ {
		c := f.Expr[i]
		switch {
		case c == '\'':
			quoted = !quoted
		case c == '?' && !quoted:
			if i+1 < len(f.Expr) && f.Expr[i+1] == '?' {
				sb.WriteByte('?')
				i++
				continue
			}
			n++
			sb.WriteString("$" + strconv.Itoa(offset+n))
			continue
		}
		sb.WriteByte(c)
	}
	if n != len(f.Args) {
		return "", nil, fmt.Errorf("collection: filter %q has %d placeholders but %d args", f.Expr, n, len(f.Args))
	}
	return "(" + sb.String() + ")", f.Args, nil
}
