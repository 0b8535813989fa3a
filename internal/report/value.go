package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Value is a sealed interface over the node types a build report can hold.
// Only Object, Array, String, Int, Float, Bool, and Null implement it.
//
// Build-output reports are plain JSON, so unlike stricter IRs the tree keeps
// floats (GraalVM emits them for resource metrics such as cpu load) and
// nulls. Verified leaves are always Int; other kinds at a verified path are
// a resolution error, never a silent coercion.
type Value interface {
	value() // sealed
}

// Null represents a JSON null node.
type Null struct{}

func (Null) value() {}

// String represents a JSON string node.
type String string

func (String) value() {}

// Int represents a JSON number with no fractional or exponent part,
// stored as int64. All verifiable metric leaves are Ints.
type Int int64

func (Int) value() {}

// Float represents any other JSON number. Reports carry these for
// resource-usage metrics; they are not valid verification targets.
type Float float64

func (Float) value() {}

// Bool represents a JSON boolean node.
type Bool bool

func (Bool) value() {}

// Array represents a JSON array node.
type Array []Value

func (Array) value() {}

// Object represents a JSON object node. Use SortedKeys for deterministic
// iteration.
type Object map[string]Value

func (Object) value() {}

// SortedKeys returns the object's keys in lexical order.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Kind names the concrete type of a Value for diagnostics.
func Kind(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case String:
		return "string"
	case Int:
		return "integer"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// decodeValue converts a value produced by json.Decoder (with UseNumber)
// into the sealed representation.
func decodeValue(raw any) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		// Integers are preferred: a number without '.', 'e', or 'E' that
		// fits in int64 becomes an Int, everything else a Float.
		s := string(val)
		if !strings.ContainsAny(s, ".eE") {
			if n, err := val.Int64(); err == nil {
				return Int(n), nil
			}
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("unrepresentable number %q", s)
		}
		return Float(f), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			v, err := decodeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			v, err := decodeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = v
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported JSON type %T", raw)
	}
}
