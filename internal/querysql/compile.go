// Package querysql compiles canonical queries to parameterized SQL.
//
// CRITICAL: every identifier is quoted and every value is bound through a
// positional placeholder; no user-supplied value is ever concatenated into
// SQL text. This is the core safety invariant of the package.
package querysql

import (
	"strings"

	"github.com/stratadb/strata/internal/query"
	"github.com/stratadb/strata/internal/scalar"
)

// Compiled is a parameterized SQL statement plus its ordered argument list.
// Args order matches placeholder order left to right: filter arguments first,
// then limit, then offset.
type Compiled struct {
	SQL  string
	Args []any
}

// Compiler translates canonical queries into SQL text. It is stateless and
// safe for concurrent use.
type Compiler struct{}

// NewCompiler creates a Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile builds a full SELECT statement for the query against table.
//
// Compilation is a total function over normalized queries: malformed input is
// rejected by the query package, never here.
func (c *Compiler) Compile(table string, q query.Query) Compiled {
	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT ")
	sb.WriteString(projectionColumns(q.Projection))
	sb.WriteString(" FROM ")
	sb.WriteString(QuoteIdent(table))

	if frag, filterArgs := compileNode(q.Filter, false); frag != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(frag)
		args = append(args, filterArgs...)
	}

	if len(q.Sort) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, key := range q.Sort {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(QuoteIdent(key.Field))
			sb.WriteByte(' ')
			sb.WriteString(string(key.Direction))
		}
	}

	if q.Page != nil {
		switch {
		case q.Page.Limited:
			sb.WriteString(" LIMIT ?")
			args = append(args, q.Page.Limit)
		case q.Page.Offset > 0:
			// OFFSET requires a preceding LIMIT in this dialect; -1 is the
			// dialect's "no limit" constant, not a user value.
			sb.WriteString(" LIMIT -1")
		}
		if q.Page.Offset > 0 {
			sb.WriteString(" OFFSET ?")
			args = append(args, q.Page.Offset)
		}
	}

	return Compiled{SQL: sb.String(), Args: args}
}

// CompileCount builds a COUNT statement over the same filter, ignoring sort,
// pagination, and projection. Used to obtain the total for pagination
// metadata.
func (c *Compiler) CompileCount(table string, filter query.Node) Compiled {
	var sb strings.Builder
	var args []any

	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(QuoteIdent(table))
	if frag, filterArgs := compileNode(filter, false); frag != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(frag)
		args = append(args, filterArgs...)
	}
	return Compiled{SQL: sb.String(), Args: args}
}

// QuoteIdent wraps a table/column identifier in double quotes, doubling any
// embedded double quote. No identifier is ever used unescaped.
func QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func projectionColumns(p query.Projection) string {
	if p == nil {
		return "*"
	}
	cols := make([]string, len(p))
	for i, field := range p {
		cols[i] = QuoteIdent(field)
	}
	return strings.Join(cols, ", ")
}

// compileNode compiles a filter node to a WHERE fragment. An empty fragment
// means "matches everything"; the caller omits the WHERE clause entirely
// rather than emitting an always-true tautology.
func compileNode(node query.Node, nested bool) (string, []any) {
	switch n := node.(type) {
	case nil:
		return "", nil
	case *query.Comparison:
		return compileComparison(n)
	case *query.Logical:
		return compileLogical(n, nested)
	default:
		return "", nil
	}
}

func compileLogical(n *query.Logical, nested bool) (string, []any) {
	if n.Op == query.LogicalNot {
		return compileNot(n)
	}

	var frags []string
	var args []any
	for _, child := range n.Children {
		frag, childArgs := compileNode(child, true)
		if frag == "" {
			// Empty child groups match everything and contribute nothing.
			continue
		}
		frags = append(frags, frag)
		args = append(args, childArgs...)
	}
	if len(frags) == 0 {
		return "", nil
	}

	joiner := " AND "
	if n.Op == query.LogicalOr {
		joiner = " OR "
	}
	frag := strings.Join(frags, joiner)
	if nested && len(frags) > 1 {
		frag = "(" + frag + ")"
	}
	return frag, args
}

func compileNot(n *query.Logical) (string, []any) {
	inner := &query.Logical{Op: query.LogicalAnd, Children: n.Children}
	frag, args := compileLogical(inner, false)
	if frag == "" {
		// NOT over a match-everything group matches nothing.
		return "1=0", nil
	}
	return "NOT (" + frag + ")", args
}

func compileComparison(n *query.Comparison) (string, []any) {
	col := QuoteIdent(n.Field)

	switch n.Op {
	case query.OpEq:
		if scalar.IsNull(n.Value) {
			return col + " IS NULL", nil
		}
		return col + " = ?", []any{scalar.Param(n.Value)}

	case query.OpNe:
		if scalar.IsNull(n.Value) {
			return col + " IS NOT NULL", nil
		}
		return col + " != ?", []any{scalar.Param(n.Value)}

	case query.OpGt:
		return col + " > ?", []any{scalar.Param(n.Value)}
	case query.OpGte:
		return col + " >= ?", []any{scalar.Param(n.Value)}
	case query.OpLt:
		return col + " < ?", []any{scalar.Param(n.Value)}
	case query.OpLte:
		return col + " <= ?", []any{scalar.Param(n.Value)}

	case query.OpIn:
		if len(n.Values) == 0 {
			// IN over the empty set matches nothing.
			return "1=0", nil
		}
		return col + " IN (" + placeholders(len(n.Values)) + ")", listParams(n.Values)

	case query.OpNin:
		if len(n.Values) == 0 {
			// NOT IN over the empty set matches everything.
			return "1=1", nil
		}
		return col + " NOT IN (" + placeholders(len(n.Values)) + ")", listParams(n.Values)

	case query.OpContains:
		return col + " LIKE ?", []any{"%" + scalar.Text(n.Value) + "%"}
	case query.OpStartsWith:
		return col + " LIKE ?", []any{scalar.Text(n.Value) + "%"}
	case query.OpEndsWith:
		return col + " LIKE ?", []any{"%" + scalar.Text(n.Value)}

	case query.OpBetween:
		return col + " BETWEEN ? AND ?", []any{scalar.Param(n.Values[0]), scalar.Param(n.Values[1])}

	default:
		// Unknown operators were degraded to equality during normalization;
		// mirror that here so the compiler stays total.
		if scalar.IsNull(n.Value) {
			return col + " IS NULL", nil
		}
		return col + " = ?", []any{scalar.Param(n.Value)}
	}
}

func placeholders(n int) string {
	if n == 1 {
		return "?"
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func listParams(values []scalar.Value) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = scalar.Param(v)
	}
	return args
}
