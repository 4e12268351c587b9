package engine

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/stratadb/strata/internal/query"
	"github.com/stratadb/strata/internal/scalar"
)

// Matches recursively evaluates a filter node against one record.
//
// A nil node matches everything. Logical AND short-circuits on the first
// false child, OR on the first true child; an empty AND or OR group matches
// everything, mirroring the compiler's omit-the-WHERE-clause behavior.
func Matches(rec scalar.Record, node query.Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *query.Comparison:
		return matchComparison(rec, n)
	case *query.Logical:
		return matchLogical(rec, n)
	default:
		return false
	}
}

func matchLogical(rec scalar.Record, n *query.Logical) bool {
	switch n.Op {
	case query.LogicalOr:
		if len(n.Children) == 0 {
			return true
		}
		for _, child := range n.Children {
			if Matches(rec, child) {
				return true
			}
		}
		return false
	case query.LogicalNot:
		for _, child := range n.Children {
			if !Matches(rec, child) {
				return true
			}
		}
		return false
	default:
		for _, child := range n.Children {
			if !Matches(rec, child) {
				return false
			}
		}
		return true
	}
}

func matchComparison(rec scalar.Record, n *query.Comparison) bool {
	field, ok := rec[n.Field]
	if !ok || field == nil {
		field = scalar.Null{}
	}

	switch n.Op {
	case query.OpEq:
		// Equality against null is a presence test, not a value comparison.
		if scalar.IsNull(n.Value) {
			return scalar.IsNull(field)
		}
		return scalar.Equal(field, n.Value)

	case query.OpNe:
		if scalar.IsNull(n.Value) {
			return !scalar.IsNull(field)
		}
		// A null field never satisfies !=, per SQL three-valued logic.
		return !scalar.IsNull(field) && !scalar.Equal(field, n.Value)

	case query.OpGt:
		return scalar.Comparable(field, n.Value) && scalar.Compare(field, n.Value) > 0
	case query.OpGte:
		return scalar.Comparable(field, n.Value) && scalar.Compare(field, n.Value) >= 0
	case query.OpLt:
		return scalar.Comparable(field, n.Value) && scalar.Compare(field, n.Value) < 0
	case query.OpLte:
		return scalar.Comparable(field, n.Value) && scalar.Compare(field, n.Value) <= 0

	case query.OpIn:
		// Empty set matches nothing; null members never match, and a null
		// field never matches, both as on the SQL path.
		if len(n.Values) == 0 || scalar.IsNull(field) {
			return false
		}
		for _, v := range n.Values {
			if !scalar.IsNull(v) && scalar.Equal(field, v) {
				return true
			}
		}
		return false

	case query.OpNin:
		// Empty set matches everything. A null field, or a null member,
		// makes NOT IN unknown in SQL, so it never matches here either.
		if len(n.Values) == 0 {
			return true
		}
		if scalar.IsNull(field) {
			return false
		}
		for _, v := range n.Values {
			if scalar.IsNull(v) || scalar.Equal(field, v) {
				return false
			}
		}
		return true

	case query.OpContains:
		return !scalar.IsNull(field) && strings.Contains(fold(scalar.Text(field)), fold(scalar.Text(n.Value)))
	case query.OpStartsWith:
		return !scalar.IsNull(field) && strings.HasPrefix(fold(scalar.Text(field)), fold(scalar.Text(n.Value)))
	case query.OpEndsWith:
		return !scalar.IsNull(field) && strings.HasSuffix(fold(scalar.Text(field)), fold(scalar.Text(n.Value)))

	case query.OpBetween:
		if len(n.Values) != 2 {
			return false
		}
		lower, upper := n.Values[0], n.Values[1]
		if !scalar.Comparable(field, lower) || !scalar.Comparable(field, upper) {
			return false
		}
		// Inclusive on both bounds.
		return scalar.Compare(field, lower) >= 0 && scalar.Compare(field, upper) <= 0

	default:
		// Unknown operators were degraded to equality during normalization.
		if scalar.IsNull(n.Value) {
			return scalar.IsNull(field)
		}
		return scalar.Equal(field, n.Value)
	}
}

// fold produces the case-insensitive comparison form of a string: NFC
// normalized, then lowercased. NFC keeps composed and decomposed inputs from
// comparing unequal.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
