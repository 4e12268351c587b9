package querysql

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratadb/strata/internal/query"
	"github.com/stratadb/strata/internal/scalar"
)

func TestCompile_ComparisonFragments(t *testing.T) {
	testCases := []struct {
		name     string
		filter   query.Node
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "eq",
			filter:   query.Compare("role", query.OpEq, scalar.String("admin")),
			wantSQL:  `SELECT * FROM "users" WHERE "role" = ?`,
			wantArgs: []any{"admin"},
		},
		{
			name:     "eq null becomes IS NULL",
			filter:   query.Compare("deleted_at", query.OpEq, scalar.Null{}),
			wantSQL:  `SELECT * FROM "users" WHERE "deleted_at" IS NULL`,
			wantArgs: nil,
		},
		{
			name:     "ne null becomes IS NOT NULL",
			filter:   query.Compare("deleted_at", query.OpNe, scalar.Null{}),
			wantSQL:  `SELECT * FROM "users" WHERE "deleted_at" IS NOT NULL`,
			wantArgs: nil,
		},
		{
			name:     "ne",
			filter:   query.Compare("role", query.OpNe, scalar.String("guest")),
			wantSQL:  `SELECT * FROM "users" WHERE "role" != ?`,
			wantArgs: []any{"guest"},
		},
		{
			name:     "gt",
			filter:   query.Compare("age", query.OpGt, scalar.Number(25)),
			wantSQL:  `SELECT * FROM "users" WHERE "age" > ?`,
			wantArgs: []any{int64(25)},
		},
		{
			name:     "gte",
			filter:   query.Compare("age", query.OpGte, scalar.Number(25)),
			wantSQL:  `SELECT * FROM "users" WHERE "age" >= ?`,
			wantArgs: []any{int64(25)},
		},
		{
			name:     "lt",
			filter:   query.Compare("age", query.OpLt, scalar.Number(25)),
			wantSQL:  `SELECT * FROM "users" WHERE "age" < ?`,
			wantArgs: []any{int64(25)},
		},
		{
			name:     "lte",
			filter:   query.Compare("age", query.OpLte, scalar.Number(25)),
			wantSQL:  `SELECT * FROM "users" WHERE "age" <= ?`,
			wantArgs: []any{int64(25)},
		},
		{
			name: "in",
			filter: query.CompareList("status", query.OpIn,
				[]scalar.Value{scalar.String("active"), scalar.String("pending")}),
			wantSQL:  `SELECT * FROM "users" WHERE "status" IN (?, ?)`,
			wantArgs: []any{"active", "pending"},
		},
		{
			name:     "in empty set matches nothing",
			filter:   query.CompareList("status", query.OpIn, nil),
			wantSQL:  `SELECT * FROM "users" WHERE 1=0`,
			wantArgs: nil,
		},
		{
			name: "nin",
			filter: query.CompareList("status", query.OpNin,
				[]scalar.Value{scalar.String("archived")}),
			wantSQL:  `SELECT * FROM "users" WHERE "status" NOT IN (?)`,
			wantArgs: []any{"archived"},
		},
		{
			name:     "nin empty set matches everything",
			filter:   query.CompareList("status", query.OpNin, nil),
			wantSQL:  `SELECT * FROM "users" WHERE 1=1`,
			wantArgs: nil,
		},
		{
			name:     "contains",
			filter:   query.Compare("name", query.OpContains, scalar.String("adm")),
			wantSQL:  `SELECT * FROM "users" WHERE "name" LIKE ?`,
			wantArgs: []any{"%adm%"},
		},
		{
			name:     "startswith",
			filter:   query.Compare("name", query.OpStartsWith, scalar.String("ad")),
			wantSQL:  `SELECT * FROM "users" WHERE "name" LIKE ?`,
			wantArgs: []any{"ad%"},
		},
		{
			name:     "endswith",
			filter:   query.Compare("name", query.OpEndsWith, scalar.String("in")),
			wantSQL:  `SELECT * FROM "users" WHERE "name" LIKE ?`,
			wantArgs: []any{"%in"},
		},
		{
			name: "between",
			filter: query.CompareList("age", query.OpBetween,
				[]scalar.Value{scalar.Number(18), scalar.Number(65)}),
			wantSQL:  `SELECT * FROM "users" WHERE "age" BETWEEN ? AND ?`,
			wantArgs: []any{int64(18), int64(65)},
		},
	}

	compiler := NewCompiler()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			compiled := compiler.Compile("users", query.Query{Filter: tc.filter})
			assert.Equal(t, tc.wantSQL, compiled.SQL)
			assert.Equal(t, tc.wantArgs, compiled.Args)
		})
	}
}

func TestCompile_NoFilterOmitsWhere(t *testing.T) {
	compiled := NewCompiler().Compile("users", query.Query{})
	assert.Equal(t, `SELECT * FROM "users"`, compiled.SQL)
	assert.Empty(t, compiled.Args)
}

func TestCompile_EmptyLogicalGroupOmitsWhere(t *testing.T) {
	// Empty groups match everything: the statement omits the WHERE clause
	// entirely rather than emitting a tautology.
	for _, filter := range []query.Node{query.And(), query.Or()} {
		compiled := NewCompiler().Compile("users", query.Query{Filter: filter})
		assert.Equal(t, `SELECT * FROM "users"`, compiled.SQL)
	}
}

func TestCompile_NestedLogicalParenthesized(t *testing.T) {
	filter := query.Or(
		query.And(
			query.Compare("role", query.OpEq, scalar.String("admin")),
			query.Compare("age", query.OpGt, scalar.Number(30)),
		),
		query.Compare("vip", query.OpEq, scalar.Bool(true)),
	)

	compiled := NewCompiler().Compile("users", query.Query{Filter: filter})
	assert.Equal(t,
		`SELECT * FROM "users" WHERE ("role" = ? AND "age" > ?) OR "vip" = ?`,
		compiled.SQL)
	assert.Equal(t, []any{"admin", int64(30), true}, compiled.Args)
}

func TestCompile_Not(t *testing.T) {
	filter := query.Not(query.Compare("status", query.OpEq, scalar.String("archived")))

	compiled := NewCompiler().Compile("users", query.Query{Filter: filter})
	assert.Equal(t, `SELECT * FROM "users" WHERE NOT ("status" = ?)`, compiled.SQL)

	// NOT over an empty group inverts match-everything.
	compiled = NewCompiler().Compile("users", query.Query{Filter: query.Not(query.And())})
	assert.Equal(t, `SELECT * FROM "users" WHERE 1=0`, compiled.SQL)
}

func TestCompile_FullStatementArgOrder(t *testing.T) {
	limit := 5
	q := query.Query{
		Filter:     query.Compare("role", query.OpEq, scalar.String("admin")),
		Sort:       query.SortSpec{{Field: "age", Direction: query.Desc}, {Field: "id", Direction: query.Asc}},
		Page:       &query.Page{Offset: 10, Limit: limit, Limited: true},
		Projection: query.Projection{"id", "name"},
	}

	compiled := NewCompiler().Compile("users", q)
	assert.Equal(t,
		`SELECT "id", "name" FROM "users" WHERE "role" = ? ORDER BY "age" DESC, "id" ASC LIMIT ? OFFSET ?`,
		compiled.SQL)
	// Filter args first, then limit, then offset.
	assert.Equal(t, []any{"admin", 5, 10}, compiled.Args)
}

func TestCompile_OffsetWithoutLimit(t *testing.T) {
	q := query.Query{Page: &query.Page{Offset: 10}}
	compiled := NewCompiler().Compile("users", q)

	assert.Equal(t, `SELECT * FROM "users" LIMIT -1 OFFSET ?`, compiled.SQL)
	assert.Equal(t, []any{10}, compiled.Args)
}

func TestCompile_IdentifierQuoting(t *testing.T) {
	assert.Equal(t, `"users"`, QuoteIdent("users"))
	assert.Equal(t, `"we""ird"`, QuoteIdent(`we"ird`))

	filter := query.Compare(`na"me`, query.OpEq, scalar.String("x"))
	compiled := NewCompiler().Compile(`ta"ble`, query.Query{Filter: filter})
	assert.Equal(t, `SELECT * FROM "ta""ble" WHERE "na""me" = ?`, compiled.SQL)
}

func TestCompile_ValuesNeverInterpolated(t *testing.T) {
	hostile := `'; DROP TABLE users; --`
	filter := query.Compare("name", query.OpEq, scalar.String(hostile))

	compiled := NewCompiler().Compile("users", query.Query{Filter: filter})

	assert.NotContains(t, compiled.SQL, hostile)
	assert.NotContains(t, compiled.SQL, "DROP")
	assert.Equal(t, []any{hostile}, compiled.Args)
}

func TestCompileCount(t *testing.T) {
	filter := query.Compare("role", query.OpEq, scalar.String("admin"))
	compiled := NewCompiler().CompileCount("users", filter)

	assert.Equal(t, `SELECT COUNT(*) FROM "users" WHERE "role" = ?`, compiled.SQL)
	assert.Equal(t, []any{"admin"}, compiled.Args)

	compiled = NewCompiler().CompileCount("users", nil)
	assert.Equal(t, `SELECT COUNT(*) FROM "users"`, compiled.SQL)
	assert.Empty(t, compiled.Args)
}

func TestCompile_Golden(t *testing.T) {
	g := goldie.New(t)

	testCases := []struct {
		name  string
		table string
		q     query.Query
	}{
		{
			name:  "simple",
			table: "users",
			q: query.Query{
				Filter: query.Compare("role", query.OpEq, scalar.String("admin")),
			},
		},
		{
			name:  "full",
			table: "users",
			q: query.Query{
				Filter: query.And(
					query.Compare("age", query.OpGte, scalar.Number(18)),
					query.CompareList("status", query.OpIn,
						[]scalar.Value{scalar.String("active"), scalar.String("pending")}),
				),
				Sort:       query.SortSpec{{Field: "age", Direction: query.Desc}, {Field: "id", Direction: query.Asc}},
				Page:       &query.Page{Offset: 10, Limit: 5, Limited: true},
				Projection: query.Projection{"id", "name", "age"},
			},
		},
		{
			name:  "logical",
			table: "t",
			q: query.Query{
				Filter: query.Or(
					query.And(
						query.Compare("role", query.OpEq, scalar.String("admin")),
						query.Compare("age", query.OpGt, scalar.Number(30)),
					),
					query.Not(query.Compare("status", query.OpEq, scalar.String("archived"))),
				),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			compiled := NewCompiler().Compile(tc.table, tc.q)
			args, err := json.Marshal(compiled.Args)
			require.NoError(t, err)
			g.Assert(t, tc.name, []byte(compiled.SQL+"\n"+string(args)+"\n"))
		})
	}
}
