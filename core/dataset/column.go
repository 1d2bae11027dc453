package dataset

import (
	"math"
	"time"

	"data-reconciler/core/utils"
)

// Kind is the uniform inferred value type of a column.
type Kind int

const (
	// KindString holds string values.
	KindString Kind = iota
	// KindInt holds int64 values.
	KindInt
	// KindFloat holds float64 values.
	KindFloat
	// KindBool holds bool values.
	KindBool
	// KindTime holds time.Time values.
	KindTime
	// KindMixed holds heterogeneous values kept as decoded.
	KindMixed
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindBool:
		return "bool"
	case KindTime:
		return "datetime"
	default:
		return "object"
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v any) bool {
	return v == nil
}

// Column is a named, uniformly typed sequence of cell values.
// A nil entry in Values is a missing value.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// NewColumn builds a column without inspecting its values.
// Callers are responsible for values matching kind.
func NewColumn(name string, kind Kind, values []any) *Column {
	return &Column{Name: name, Kind: kind, Values: values}
}

// NewColumnFromValues normalizes decoded values to the dataset's canonical Go
// types and detects the column kind. Integer types widen to int64, float32 widens
// to float64, NaN becomes missing, and a mix of integers and floats becomes a
// float column.
func NewColumnFromValues(name string, values []any) *Column {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = canonical(v)
	}
	kind := DetectKind(out)
	if kind == KindFloat {
		for i, v := range out {
			if iv, ok := v.(int64); ok {
				out[i] = float64(iv)
			}
		}
	}
	return &Column{Name: name, Kind: kind, Values: out}
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return len(c.Values)
}

// Nullable reports whether the column holds at least one missing value.
func (c *Column) Nullable() bool {
	for _, v := range c.Values {
		if v == nil {
			return true
		}
	}
	return false
}

// Clone returns a copy of the column with its own value slice.
func (c *Column) Clone() *Column {
	values := make([]any, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Kind: c.Kind, Values: values}
}

// DetectKind determines the kind of already-canonical values. Missing values are
// ignored; an all-missing column is a string column.
func DetectKind(values []any) Kind {
	seen := map[Kind]bool{}
	for _, v := range values {
		switch v.(type) {
		case nil:
			continue
		case string:
			seen[KindString] = true
		case int64:
			seen[KindInt] = true
		case float64:
			seen[KindFloat] = true
		case bool:
			seen[KindBool] = true
		case time.Time:
			seen[KindTime] = true
		default:
			seen[KindMixed] = true
		}
	}
	switch len(seen) {
	case 0:
		return KindString
	case 1:
		for k := range seen {
			return k
		}
	case 2:
		if seen[KindInt] && seen[KindFloat] {
			return KindFloat
		}
	}
	return KindMixed
}

func canonical(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	case float32:
		if math.IsNaN(float64(x)) {
			return nil
		}
		return float64(x)
	case string, bool, int64, time.Time:
		return x
	case []byte:
		return string(x)
	case int, int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		if i, ok := utils.ToInt64(x); ok {
			return i
		}
		f, _ := utils.ToFloat64(x)
		return f
	default:
		return v
	}
}
