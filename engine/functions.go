package engine

import (
	"database/sql/driver"
	"fmt"
	"sync"

	sqlite "modernc.org/sqlite"

	"github.com/viant/pgvecto/vector"
)

// wireType converts one vector type between its wire forms.
type wireType struct {
	text   func(payload []byte) (string, error)
	binary func(text string) ([]byte, error)
	dims   func(text string) (int, error)
}

func wire[T any](codec vector.Codec[T]) wireType {
	return wireType{
		text: func(payload []byte) (string, error) {
			v, err := codec.FromDBBinary(payload)
			if err != nil {
				return "", err
			}
			text, err := codec.ToDB(*v, 0)
			if err != nil {
				return "", err
			}
			return text.(string), nil
		},
		binary: func(text string) ([]byte, error) {
			v, err := codec.FromDB(text)
			if err != nil {
				return nil, err
			}
			payload, err := codec.ToDBBinary(*v)
			if err != nil {
				return nil, err
			}
			return payload.([]byte), nil
		},
		dims: func(text string) (int, error) {
			v, err := codec.FromDB(text)
			if err != nil {
				return 0, err
			}
			return codec.Dimensions(*v), nil
		},
	}
}

var wireTypes = map[string]wireType{
	vector.Vectors.TypeName:        wire(vector.Vectors),
	vector.Float16Vectors.TypeName: wire(vector.Float16Vectors),
	vector.BinaryVectors.TypeName:  wire(vector.BinaryVectors),
	vector.SparseVectors.TypeName:  wire(vector.SparseVectors),
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterWireFunctions registers the following functions with the driver so
// they are available on connections opened after this call:
//
//	pgvecto_text(type, payload)   binary wire payload -> text form
//	pgvecto_binary(type, text)    text form -> binary wire payload
//	pgvecto_dims(type, text)      dimension of a text form value
//
// type is one of vector, vecf16, bvector or svector. NULL values yield NULL.
// Calling it more than once is a no-op.
func RegisterWireFunctions() error {
	registerOnce.Do(func() {
		for name, fn := range map[string]func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error){
			"pgvecto_text":   textImpl,
			"pgvecto_binary": binaryImpl,
			"pgvecto_dims":   dimsImpl,
		} {
			if err := sqlite.RegisterDeterministicScalarFunction(name, 2, fn); err != nil {
				registerErr = fmt.Errorf("engine: failed to register %s: %w", name, err)
				return
			}
		}
	})
	return registerErr
}

// wireArgs resolves the type argument and the value argument, reporting
// ok=false for a NULL value.
func wireArgs(fn string, args []driver.Value) (wireType, []byte, bool, error) {
	if len(args) != 2 {
		return wireType{}, nil, false, fmt.Errorf("%s: expected 2 arguments, got %d", fn, len(args))
	}
	name, err := asBytes(fn, args[0])
	if err != nil {
		return wireType{}, nil, false, err
	}
	wt, ok := wireTypes[string(name)]
	if !ok {
		return wireType{}, nil, false, fmt.Errorf("%s: unsupported type %q", fn, name)
	}
	if args[1] == nil {
		return wt, nil, false, nil
	}
	value, err := asBytes(fn, args[1])
	if err != nil {
		return wireType{}, nil, false, err
	}
	return wt, value, true, nil
}

func asBytes(fn string, arg driver.Value) ([]byte, error) {
	switch v := arg.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T; want TEXT or BLOB", fn, arg)
	}
}

func textImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	wt, payload, ok, err := wireArgs("pgvecto_text", args)
	if err != nil || !ok {
		return nil, err
	}
	return wt.text(payload)
}

func binaryImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	wt, text, ok, err := wireArgs("pgvecto_binary", args)
	if err != nil || !ok {
		return nil, err
	}
	return wt.binary(string(text))
}

func dimsImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	wt, text, ok, err := wireArgs("pgvecto_dims", args)
	if err != nil || !ok {
		return nil, err
	}
	dims, err := wt.dims(string(text))
	if err != nil {
		return nil, err
	}
	return int64(dims), nil
}
