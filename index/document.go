package index

import (
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Document is an insertion-ordered TOML table. Values are ints, strings or
// nested *Document tables.
type Document struct {
	keys   []string
	values map[string]any
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{values: make(map[string]any)}
}

// SetInt sets key to an integer, keeping the key's original position when it
// already exists.
func (d *Document) SetInt(key string, value int) *Document { return d.set(key, value) }

// SetString sets key to a string.
func (d *Document) SetString(key string, value string) *Document { return d.set(key, value) }

// SetTable sets key to a nested table.
func (d *Document) SetTable(key string, table *Document) *Document {
	if table == nil {
		table = NewDocument()
	}
	return d.set(key, table)
}

func (d *Document) set(key string, value any) *Document {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
	return d
}

// Update copies every key of other into d in other's order, overwriting
// existing keys in place.
func (d *Document) Update(other *Document) *Document {
	if other == nil {
		return d
	}
	for _, key := range other.keys {
		d.set(key, other.values[key])
	}
	return d
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Table returns the nested table stored under key, or nil.
func (d *Document) Table(key string) *Document {
	t, _ := d.values[key].(*Document)
	return t
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string { return append([]string(nil), d.keys...) }

// Len returns the number of keys.
func (d *Document) Len() int { return len(d.keys) }

type section struct {
	path  string
	table *Document
}

// Encode renders d as TOML. Root scalars come first, then tables level by
// level in insertion order. A [path] header is written for a table that
// holds scalars or nothing at all; tables holding only sub-tables get none.
func (d *Document) Encode() string {
	var out strings.Builder
	out.WriteString(d.scalars())
	level := d.sections("")
	for len(level) > 0 {
		var next []section
		for _, s := range level {
			body := s.table.scalars()
			children := s.table.sections(s.path)
			if body != "" || len(children) == 0 {
				if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n\n") {
					out.WriteByte('\n')
				}
				out.WriteString("[" + s.path + "]\n")
				out.WriteString(body)
			}
			next = append(next, children...)
		}
		level = next
	}
	return out.String()
}

func (d *Document) scalars() string {
	var sb strings.Builder
	for _, key := range d.keys {
		value := d.values[key]
		if _, ok := value.(*Document); ok {
			continue
		}
		// single-key maps keep our key order; the encoder sorts map keys
		if err := toml.NewEncoder(&sb).Encode(map[string]any{key: value}); err != nil {
			panic("index: unencodable value for " + key + ": " + err.Error())
		}
	}
	return sb.String()
}

func (d *Document) sections(parent string) []section {
	var out []section
	for _, key := range d.keys {
		table, ok := d.values[key].(*Document)
		if !ok {
			continue
		}
		path := quoteKey(key)
		if parent != "" {
			path = parent + "." + path
		}
		out = append(out, section{path: path, table: table})
	}
	return out
}

func quoteKey(key string) string {
	if key == "" {
		return `""`
	}
	for _, r := range key {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
			return strconv.Quote(key)
		}
	}
	return key
}
