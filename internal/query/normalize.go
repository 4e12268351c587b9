package query

import (
	"sort"
	"strings"

	"github.com/stratadb/strata/internal/scalar"
)

// ParseFilter normalizes any accepted filter syntax into a canonical Node.
//
// Accepted inputs:
//   - nil: no filter (returns nil)
//   - an already-canonical Node: returned unchanged (idempotent)
//   - a tuple array, either nested ([[field, op, value], "and", ...]) or
//     flat ([field, op, value, "and", field, op, value, ...])
//   - an operator-object map ({field: value}, {field: {"$gt": 5}},
//     {"$or": [...]}, ...)
//
// Unrecognized comparison operators degrade to equality rather than erroring;
// this is inherited compatibility behavior, kept and tested (see DESIGN.md).
func ParseFilter(raw any) (Node, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case Node:
		return v, nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		return parseTupleArray(v)
	case map[string]any:
		if len(v) == 0 {
			return nil, nil
		}
		return parseObject(v)
	default:
		return nil, filterErrorf("unsupported filter shape %T", raw)
	}
}

// --- legacy tuple arrays ---

// parseTupleArray handles both legacy forms. When the first element is itself
// an array, elements alternate between [field, op, value] triples and
// conjunction tokens; otherwise tokens are consumed flat, three at a time,
// with an optional conjunction token after each triple.
func parseTupleArray(elems []any) (Node, error) {
	if _, nested := elems[0].([]any); nested {
		return parseNestedTuples(elems)
	}
	return parseFlatTuples(elems)
}

func parseNestedTuples(elems []any) (Node, error) {
	var comps []Node
	var conjs []LogicalOp

	expectTriple := true
	for i, elem := range elems {
		if expectTriple {
			triple, ok := elem.([]any)
			if !ok {
				// Two conjunctions in a row, or a leading conjunction.
				return nil, filterErrorf("element %d: expected [field, op, value] triple, got %T", i, elem)
			}
			comp, err := parseTriple(triple)
			if err != nil {
				return nil, err
			}
			comps = append(comps, comp)
			expectTriple = false
			continue
		}

		switch v := elem.(type) {
		case string:
			conj, err := parseConjunction(v)
			if err != nil {
				return nil, err
			}
			conjs = append(conjs, conj)
			expectTriple = true
		case []any:
			// Adjacent triples default to AND.
			comp, err := parseTriple(v)
			if err != nil {
				return nil, err
			}
			conjs = append(conjs, LogicalAnd)
			comps = append(comps, comp)
		default:
			return nil, filterErrorf("element %d: expected triple or conjunction, got %T", i, elem)
		}
	}
	if expectTriple {
		return nil, filterErrorf("trailing conjunction with no following triple")
	}
	return foldConjunctions(comps, conjs)
}

func parseFlatTuples(elems []any) (Node, error) {
	var comps []Node
	var conjs []LogicalOp

	i := 0
	for i < len(elems) {
		if len(elems)-i < 3 {
			return nil, filterErrorf("trailing incomplete triple at element %d", i)
		}
		field, ok := elems[i].(string)
		if !ok {
			return nil, filterErrorf("element %d: field name must be a string, got %T", i, elems[i])
		}
		opTok, ok := elems[i+1].(string)
		if !ok {
			return nil, filterErrorf("element %d: operator must be a string, got %T", i+1, elems[i+1])
		}
		comp, err := buildComparison(field, legacyOp(opTok), elems[i+2])
		if err != nil {
			return nil, err
		}
		comps = append(comps, comp)
		i += 3

		if i >= len(elems) {
			break
		}
		// A one-token conjunction, if present, joins this triple to the next.
		if tok, ok := elems[i].(string); ok {
			if conj, err := parseConjunction(tok); err == nil {
				if i == len(elems)-1 {
					return nil, filterErrorf("trailing conjunction with no following triple")
				}
				conjs = append(conjs, conj)
				i++
				continue
			}
		}
		conjs = append(conjs, LogicalAnd)
	}
	return foldConjunctions(comps, conjs)
}

func parseConjunction(tok string) (LogicalOp, error) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "and":
		return LogicalAnd, nil
	case "or":
		return LogicalOr, nil
	default:
		return "", filterErrorf("unknown conjunction %q", tok)
	}
}

func parseTriple(triple []any) (Node, error) {
	if len(triple) != 3 {
		return nil, filterErrorf("filter triple must have 3 elements, got %d", len(triple))
	}
	field, ok := triple[0].(string)
	if !ok {
		return nil, filterErrorf("field name must be a string, got %T", triple[0])
	}
	opTok, ok := triple[1].(string)
	if !ok {
		return nil, filterErrorf("operator must be a string, got %T", triple[1])
	}
	return buildComparison(field, legacyOp(opTok), triple[2])
}

// foldConjunctions joins comparisons left to right, in the order the
// conjunctions were encountered. Consecutive identical conjunctions flatten
// into one group; a change of conjunction nests the running accumulation as
// the first child of a new group. No precedence between AND and OR is
// assumed.
func foldConjunctions(comps []Node, conjs []LogicalOp) (Node, error) {
	if len(conjs) != len(comps)-1 {
		return nil, filterErrorf("mismatched conjunction count")
	}
	acc := comps[0]
	for i, conj := range conjs {
		next := comps[i+1]
		if lg, ok := acc.(*Logical); ok && lg.Op == conj {
			lg.Children = append(lg.Children, next)
			continue
		}
		acc = &Logical{Op: conj, Children: []Node{acc, next}}
	}
	return acc, nil
}

// legacyOp maps the tuple-array operator vocabulary onto canonical operators.
// Unknown tokens degrade to equality (compatibility behavior).
func legacyOp(tok string) Op {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "=", "==", "eq":
		return OpEq
	case "!=", "<>", "ne":
		return OpNe
	case ">", "gt":
		return OpGt
	case ">=", "gte":
		return OpGte
	case "<", "lt":
		return OpLt
	case "<=", "lte":
		return OpLte
	case "in":
		return OpIn
	case "nin", "not in":
		return OpNin
	case "contains", "like":
		return OpContains
	case "startswith":
		return OpStartsWith
	case "endswith":
		return OpEndsWith
	case "between":
		return OpBetween
	default:
		return OpEq
	}
}

// --- operator-object maps ---

// mongoOps maps the object-filter operator vocabulary onto canonical
// operators. Keys are case-sensitive, matching the published surface.
var mongoOps = map[string]Op{
	"$eq":         OpEq,
	"$ne":         OpNe,
	"$gt":         OpGt,
	"$gte":        OpGte,
	"$lt":         OpLt,
	"$lte":        OpLte,
	"$in":         OpIn,
	"$nin":        OpNin,
	"$contains":   OpContains,
	"$startsWith": OpStartsWith,
	"$endsWith":   OpEndsWith,
	"$between":    OpBetween,
}

func parseObject(obj map[string]any) (Node, error) {
	// Sort keys so the tree shape is deterministic regardless of map order.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var children []Node
	for _, key := range keys {
		val := obj[key]
		switch key {
		case "$and", "$or":
			node, err := parseLogicalList(key, val)
			if err != nil {
				return nil, err
			}
			children = append(children, node)
		case "$not":
			child, err := parseNotOperand(val)
			if err != nil {
				return nil, err
			}
			children = append(children, Not(child))
		default:
			if strings.HasPrefix(key, "$") {
				return nil, filterErrorf("unknown logical operator %q", key)
			}
			node, err := parseFieldCondition(key, val)
			if err != nil {
				return nil, err
			}
			children = append(children, node)
		}
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return And(children...), nil
}

func parseLogicalList(key string, val any) (Node, error) {
	items, ok := val.([]any)
	if !ok {
		return nil, filterErrorf("%s requires an array of filters, got %T", key, val)
	}
	children := make([]Node, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, filterErrorf("%s[%d]: expected filter object, got %T", key, i, item)
		}
		child, err := parseObject(obj)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	op := LogicalAnd
	if key == "$or" {
		op = LogicalOr
	}
	return &Logical{Op: op, Children: children}, nil
}

func parseNotOperand(val any) (Node, error) {
	switch v := val.(type) {
	case map[string]any:
		return parseObject(v)
	case []any:
		// An array under $not negates the conjunction of its members.
		node, err := parseLogicalList("$and", v)
		if err != nil {
			return nil, err
		}
		return node, nil
	default:
		return nil, filterErrorf("$not requires a filter object or array, got %T", val)
	}
}

// parseFieldCondition handles a single field key: a plain value is implicit
// equality, a map is an operator sub-object whose conditions AND together.
func parseFieldCondition(field string, val any) (Node, error) {
	sub, ok := val.(map[string]any)
	if !ok {
		// Implicit equality. Equality against null is normalized to the same
		// Comparison the explicit $eq/null form produces; the compiler and
		// evaluator give it IS NULL semantics.
		return buildComparison(field, OpEq, val)
	}

	opKeys := make([]string, 0, len(sub))
	for k := range sub {
		opKeys = append(opKeys, k)
	}
	sort.Strings(opKeys)

	var children []Node
	for _, opKey := range opKeys {
		operand := sub[opKey]
		if opKey == "$exists" {
			node, err := existsComparison(field, operand)
			if err != nil {
				return nil, err
			}
			children = append(children, node)
			continue
		}
		op, known := mongoOps[opKey]
		if !known {
			// Unknown comparison operators degrade to equality.
			op = OpEq
		}
		node, err := buildComparison(field, op, operand)
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	if len(children) == 0 {
		return nil, filterErrorf("field %q: empty operator object", field)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return And(children...), nil
}

// existsComparison maps $exists onto null comparisons: $exists true is
// "field is not null", $exists false is "field is null".
func existsComparison(field string, operand any) (Node, error) {
	exists, ok := operand.(bool)
	if !ok {
		return nil, filterErrorf("field %q: $exists requires a boolean, got %T", field, operand)
	}
	op := OpEq
	if exists {
		op = OpNe
	}
	return Compare(field, op, scalar.Null{}), nil
}

// buildComparison validates the operand shape for op and produces the leaf.
func buildComparison(field string, op Op, operand any) (Node, error) {
	switch op {
	case OpIn, OpNin:
		items, ok := operand.([]any)
		if !ok {
			if vals, ok := operand.([]scalar.Value); ok {
				return CompareList(field, op, vals), nil
			}
			return nil, filterErrorf("field %q: %s requires an array operand, got %T", field, op, operand)
		}
		values, err := scalarList(field, items)
		if err != nil {
			return nil, err
		}
		return CompareList(field, op, values), nil

	case OpBetween:
		items, ok := operand.([]any)
		if !ok {
			if vals, ok := operand.([]scalar.Value); ok && len(vals) == 2 {
				return CompareList(field, op, vals), nil
			}
			return nil, filterErrorf("field %q: between requires a two-element array, got %T", field, operand)
		}
		if len(items) != 2 {
			return nil, filterErrorf("field %q: between requires exactly 2 bounds, got %d", field, len(items))
		}
		values, err := scalarList(field, items)
		if err != nil {
			return nil, err
		}
		return CompareList(field, op, values), nil

	default:
		value, err := scalar.FromAny(operand)
		if err != nil {
			return nil, filterErrorf("field %q: %v", field, err)
		}
		return Compare(field, op, value), nil
	}
}

func scalarList(field string, items []any) ([]scalar.Value, error) {
	values := make([]scalar.Value, len(items))
	for i, item := range items {
		v, err := scalar.FromAny(item)
		if err != nil {
			return nil, filterErrorf("field %q element %d: %v", field, i, err)
		}
		values[i] = v
	}
	return values, nil
}
