package scalar

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Type ranks for cross-type ordering. Mirrors SQLite's storage-class order
// (NULL < numeric < text) so in-memory sorts agree with ORDER BY.
const (
	rankNull = iota
	rankNumeric
	rankText
)

func rank(v Value) int {
	switch v.(type) {
	case nil, Null:
		return rankNull
	case Bool, Number:
		return rankNumeric
	default:
		return rankText
	}
}

func numeric(v Value) float64 {
	switch val := v.(type) {
	case Bool:
		if val {
			return 1
		}
		return 0
	case Number:
		return float64(val)
	}
	return 0
}

// Compare imposes a total order over all Values: nulls first, then numerics
// (booleans as 0/1), then text (times as RFC 3339, so lexicographic equals
// chronological). Returns -1, 0, or +1.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch ra {
	case rankNull:
		return 0
	case rankNumeric:
		na, nb := numeric(a), numeric(b)
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	default:
		// Two times compare chronologically to avoid text-format edge cases.
		if ta, ok := a.(Time); ok {
			if tb, ok := b.(Time); ok {
				return time.Time(ta).Compare(time.Time(tb))
			}
		}
		return strings.Compare(text(a), text(b))
	}
}

// Equal reports value equality with the same cross-type coercions as Compare.
// Null equals only Null; callers implementing IS NULL semantics should use
// IsNull instead.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	if rank(a) != rank(b) {
		return false
	}
	return Compare(a, b) == 0
}

// Comparable reports whether a and b order meaningfully against each other
// for range operators. Nulls and cross-rank pairs do not (SQL three-valued
// logic treats those comparisons as unknown).
func Comparable(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return false
	}
	return rank(a) == rank(b)
}

// text returns the textual form of a Value, used for LIKE-style operators
// and text-rank ordering.
func text(v Value) string {
	switch val := v.(type) {
	case String:
		return string(val)
	case Time:
		return time.Time(val).UTC().Format(time.RFC3339Nano)
	case Bool:
		if val {
			return "true"
		}
		return "false"
	case Number:
		f := float64(val)
		if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return ""
	}
}

// Text exposes the textual form for substring/prefix/suffix operators.
func Text(v Value) string { return text(v) }
