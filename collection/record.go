package collection

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/viant/pgvecto/vector"
)

// Record is one row of a collection.
type Record struct {
	ID        uuid.UUID
	Text      string
	Meta      map[string]any
	Embedding vector.Vector
}

// NewRecord returns a Record with a random ID. A nil meta becomes an empty map.
func NewRecord(text string, embedding []float32, meta map[string]any) Record {
	if meta == nil {
		meta = map[string]any{}
	}
	return Record{
		ID:        uuid.New(),
		Text:      text,
		Meta:      meta,
		Embedding: vector.NewVector(embedding),
	}
}

func (r Record) String() string {
	var sb strings.Builder
	sb.WriteString("============= Record =============\n")
	fmt.Fprintf(&sb, "[id]       : %s\n", r.ID)
	fmt.Fprintf(&sb, "[text]     : %s\n", r.Text)
	fmt.Fprintf(&sb, "[meta]     : %v\n", r.Meta)
	fmt.Fprintf(&sb, "[embedding]: %s\n", r.Embedding)
	sb.WriteString("========== End of Record =========")
	return sb.String()
}

// Result is a search hit and its distance to the query.
type Result struct {
	Record
	Distance float64
}
