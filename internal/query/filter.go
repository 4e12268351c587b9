package query

import "github.com/stratadb/strata/internal/scalar"

// Node is the sealed interface for filter expression tree nodes.
// Only *Comparison and *Logical implement it.
//
// This enables:
//   - Exhaustive type switches in the compiler and evaluator
//   - Compile-time safety against external extensions
type Node interface {
	filterNode() // Sealed - only types in this package implement it
}

// Op identifies a comparison operator.
type Op string

// Comparison operators. These are the canonical forms; the normalizers map
// each input syntax's vocabulary onto this set.
const (
	OpEq         Op = "eq"
	OpNe         Op = "ne"
	OpGt         Op = "gt"
	OpGte        Op = "gte"
	OpLt         Op = "lt"
	OpLte        Op = "lte"
	OpIn         Op = "in"
	OpNin        Op = "nin"
	OpContains   Op = "contains"
	OpStartsWith Op = "startswith"
	OpEndsWith   Op = "endswith"
	OpBetween    Op = "between"
)

// LogicalOp identifies a boolean connective.
type LogicalOp string

const (
	LogicalAnd LogicalOp = "and"
	LogicalOr  LogicalOp = "or"
	LogicalNot LogicalOp = "not"
)

// Comparison is a leaf node testing one field against one operator.
//
// Value holds the operand for all operators except OpIn, OpNin, and
// OpBetween, which use Values (OpBetween holds exactly two, lower then
// upper). The unused slot is nil.
type Comparison struct {
	Field  string
	Op     Op
	Value  scalar.Value
	Values []scalar.Value
}

func (*Comparison) filterNode() {}

// Logical is an internal node combining children with a boolean connective.
//
// An empty child list is the neutral element for its operator: both
// AND-of-nothing and OR-of-nothing match everything. The OR case is a
// deliberate compatibility choice over the classical empty-disjunction
// semantics; see DESIGN.md. LogicalNot always has exactly one child after
// normalization.
type Logical struct {
	Op       LogicalOp
	Children []Node
}

func (*Logical) filterNode() {}

// And builds a conjunction node.
func And(children ...Node) *Logical { return &Logical{Op: LogicalAnd, Children: children} }

// Or builds a disjunction node.
func Or(children ...Node) *Logical { return &Logical{Op: LogicalOr, Children: children} }

// Not builds a negation node over a single child.
func Not(child Node) *Logical { return &Logical{Op: LogicalNot, Children: []Node{child}} }

// Compare builds a single-operand comparison node.
func Compare(field string, op Op, value scalar.Value) *Comparison {
	return &Comparison{Field: field, Op: op, Value: value}
}

// CompareList builds a list-operand comparison node (in/nin/between).
func CompareList(field string, op Op, values []scalar.Value) *Comparison {
	return &Comparison{Field: field, Op: op, Values: values}
}
