package pgtype

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"sync"

	"github.com/viant/pgvecto/vector"
)

// Format is the PostgreSQL wire format code.
type Format int16

const (
	TextFormat   Format = 0
	BinaryFormat Format = 1
)

func (f Format) String() string {
	if f == BinaryFormat {
		return "binary"
	}
	return "text"
}

// Entry binds one type and wire format to its dump and load functions.
// Dump passes nil through as nil; Load returns nil for a nil source.
type Entry struct {
	TypeName string
	OID      uint32
	Format   Format
	Dump     func(value any) (driver.Value, error)
	Load     func(src any) (any, error)
}

// UnsupportedTypeError reports a type the registry has no codec for, or a
// required type the server does not provide.
type UnsupportedTypeError struct {
	TypeName string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("pgtype: %s type not found", e.TypeName)
}

// TypeNames lists the extension types with a codec, in registration order.
var TypeNames = []string{
	vector.Vectors.TypeName,
	vector.BinaryVectors.TypeName,
	vector.Float16Vectors.TypeName,
	vector.SparseVectors.TypeName,
}

// Entries returns the text and binary entries for typeName bound to oid.
func Entries(typeName string, oid uint32) ([]Entry, error) {
	switch typeName {
	case vector.Vectors.TypeName:
		return entries(vector.Vectors, oid), nil
	case vector.Float16Vectors.TypeName:
		return entries(vector.Float16Vectors, oid), nil
	case vector.BinaryVectors.TypeName:
		return entries(vector.BinaryVectors, oid), nil
	case vector.SparseVectors.TypeName:
		return entries(vector.SparseVectors, oid), nil
	}
	return nil, &UnsupportedTypeError{TypeName: typeName}
}

func entries[T any](codec vector.Codec[T], oid uint32) []Entry {
	load := func(fn func(any) (*T, error)) func(any) (any, error) {
		return func(src any) (any, error) {
			v, err := fn(src)
			if err != nil || v == nil {
				return nil, err
			}
			return *v, nil
		}
	}
	return []Entry{
		{
			TypeName: codec.TypeName,
			OID:      oid,
			Format:   TextFormat,
			Dump:     func(value any) (driver.Value, error) { return codec.ToDB(value, 0) },
			Load:     load(codec.FromDB),
		},
		{
			TypeName: codec.TypeName,
			OID:      oid,
			Format:   BinaryFormat,
			Dump:     codec.ToDBBinary,
			Load:     load(codec.FromDBBinary),
		},
	}
}

type entryKey struct {
	oid    uint32
	format Format
}

// Registry maps OIDs to codec entries for one database. It is safe for
// concurrent use; independent registries never share state.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[entryKey]Entry
	byName map[string]uint32
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:  make(map[entryKey]Entry),
		byName: make(map[string]uint32),
	}
}

// Register binds typeName to oid in both wire formats, replacing any
// previous binding of the name.
func (r *Registry) Register(typeName string, oid uint32) error {
	list, err := Entries(typeName, oid)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if previous, ok := r.byName[typeName]; ok {
		delete(r.byKey, entryKey{previous, TextFormat})
		delete(r.byKey, entryKey{previous, BinaryFormat})
	}
	for _, e := range list {
		r.byKey[entryKey{e.OID, e.Format}] = e
	}
	r.byName[typeName] = oid
	return nil
}

// Lookup returns the entry for oid in format.
func (r *Registry) Lookup(oid uint32, format Format) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byKey[entryKey{oid, format}]
	return e, ok
}

// LookupName returns the entry registered for typeName in format.
func (r *Registry) LookupName(typeName string, format Format) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	oid, ok := r.byName[typeName]
	if !ok {
		return Entry{}, false
	}
	e, ok := r.byKey[entryKey{oid, format}]
	return e, ok
}

// OID returns the OID typeName is registered under.
func (r *Registry) OID(typeName string) (uint32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	oid, ok := r.byName[typeName]
	return oid, ok
}

// Entries returns every registered entry ordered by OID then format.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.byKey))
	for _, e := range r.byKey {
		out = append(out, e)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b Entry) int {
		if a.OID != b.OID {
			if a.OID < b.OID {
				return -1
			}
			return 1
		}
		return int(a.Format) - int(b.Format)
	})
	return out
}

// Dump encodes value for the type registered as typeName.
func (r *Registry) Dump(typeName string, format Format, value any) (driver.Value, error) {
	e, ok := r.LookupName(typeName, format)
	if !ok {
		return nil, &UnsupportedTypeError{TypeName: typeName}
	}
	return e.Dump(value)
}

// Load decodes src received for oid in format.
func (r *Registry) Load(oid uint32, format Format, src any) (any, error) {
	e, ok := r.Lookup(oid, format)
	if !ok {
		return nil, fmt.Errorf("pgtype: no %s codec registered for oid %d", format, oid)
	}
	return e.Load(src)
}
