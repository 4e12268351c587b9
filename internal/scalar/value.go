package scalar

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Value is a sealed interface representing the constrained scalar types.
// Only Null, String, Number, Bool, and Time implement it.
type Value interface {
	scalarValue() // Sealed - only these types implement it
}

// Null represents an absent or SQL NULL value.
// Using an explicit type ensures all Values satisfy the sealed interface.
type Null struct{}

func (Null) scalarValue() {}

// String represents a text value.
type String string

func (String) scalarValue() {}

// Number represents a numeric value. Always float64 internally; integral
// numbers are bound to SQL as int64 (see Param) to preserve column affinity.
type Number float64

func (Number) scalarValue() {}

// Bool represents a boolean value. SQL backends store booleans as 0/1
// integers, so Bool compares equal to the corresponding Number (see Equal).
type Bool bool

func (Bool) scalarValue() {}

// Time represents a point in time. Bound to SQL as RFC 3339 UTC text so that
// lexicographic order equals chronological order on the SQL path.
type Time time.Time

func (Time) scalarValue() {}

// Std returns the underlying time.Time.
func (t Time) Std() time.Time { return time.Time(t) }

// Record is one row/document as seen by the engine. Field lookup on a missing
// key is equivalent to a Null value.
type Record map[string]Value

// Clone returns a shallow copy of the record. Values are immutable, so a
// shallow copy is a safe snapshot.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FromAny converts a JSON-decoded (or YAML-decoded) Go value to a Value.
// Arrays and objects are rejected: record fields and comparison operands are
// scalars only; list-valued operands are handled one element at a time.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", val, err)
		}
		return Number(f), nil
	case time.Time:
		return Time(val), nil
	default:
		return nil, fmt.Errorf("unsupported scalar type: %T", v)
	}
}

// RecordFromAny converts a decoded map into a Record.
func RecordFromAny(m map[string]any) (Record, error) {
	rec := make(Record, len(m))
	for k, v := range m {
		sv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		rec[k] = sv
	}
	return rec, nil
}

// ToAny converts a Value back to a plain Go value for JSON serialization.
// Integral Numbers come back as int64 so encoders don't render "3" as "3.0".
func ToAny(v Value) any {
	switch val := v.(type) {
	case Null:
		return nil
	case String:
		return string(val)
	case Bool:
		return bool(val)
	case Number:
		f := float64(val)
		if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
			return int64(f)
		}
		return f
	case Time:
		return time.Time(val).UTC().Format(time.RFC3339Nano)
	default:
		return nil
	}
}

// ToAnyMap converts a Record for JSON serialization.
func ToAnyMap(r Record) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = ToAny(v)
	}
	return out
}

// Param converts a Value to a driver-bindable Go value.
// Time is bound as RFC 3339 UTC text; booleans as the driver's native bool.
func Param(v Value) any {
	switch val := v.(type) {
	case Null:
		return nil
	case String:
		return string(val)
	case Bool:
		return bool(val)
	case Number:
		f := float64(val)
		if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
			return int64(f)
		}
		return f
	case Time:
		return time.Time(val).UTC().Format(time.RFC3339Nano)
	default:
		return nil
	}
}

// FromSQL converts a value scanned from database/sql into a Value.
func FromSQL(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case string:
		return String(val), nil
	case []byte:
		return String(string(val)), nil
	case bool:
		return Bool(val), nil
	case time.Time:
		return Time(val), nil
	default:
		return nil, fmt.Errorf("unsupported SQL type: %T", v)
	}
}

// IsNull reports whether v is absent or the explicit Null value.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}
