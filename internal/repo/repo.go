// Package repo provides one Find/Count surface over both execution
// strategies: compiled SQL against a relational collaborator, or the
// in-memory pipeline against any record source. Identical semantic queries
// select identical row sets on either path; the package's tests enforce
// that equivalence directly.
package repo

import (
	"context"
	"fmt"

	"github.com/stratadb/strata/internal/engine"
	"github.com/stratadb/strata/internal/query"
	"github.com/stratadb/strata/internal/querysql"
	"github.com/stratadb/strata/internal/scalar"
)

// Repository executes canonical queries against one backend.
type Repository interface {
	// Find runs the full pipeline and returns the result envelope. Meta is
	// present only when the query carried pagination parameters.
	Find(ctx context.Context, q query.Query) (engine.ListResult, error)

	// Count returns the number of records matching the filter, ignoring
	// sort, pagination, and projection.
	Count(ctx context.Context, filter query.Node) (int, error)
}

// RecordSource is the surface an in-memory, file, or spreadsheet
// collaborator presents: a consistent snapshot of its records.
type RecordSource interface {
	Records() []scalar.Record
}

// RecordRepository evaluates queries in process against a RecordSource.
type RecordRepository struct {
	source RecordSource
}

// NewRecordRepository creates a repository over a record source.
func NewRecordRepository(source RecordSource) *RecordRepository {
	return &RecordRepository{source: source}
}

// Find implements Repository.
func (r *RecordRepository) Find(_ context.Context, q query.Query) (engine.ListResult, error) {
	// One snapshot serves both the item pipeline and the total count, so
	// the meta block can never disagree with the items.
	records := r.source.Records()
	items := engine.Find(records, q)

	var meta *engine.Meta
	if q.Page != nil {
		total := engine.Count(records, q.Filter)
		meta = engine.BuildMeta(len(items), q.Page, total)
	}
	return engine.ListResult{Items: items, Meta: meta}, nil
}

// Count implements Repository.
func (r *RecordRepository) Count(_ context.Context, filter query.Node) (int, error) {
	return engine.Count(r.source.Records(), filter), nil
}

// SQLExecutor is the statement-execution capability a relational
// collaborator supplies. It owns connections, transactions, and row mapping.
type SQLExecutor interface {
	Select(ctx context.Context, c querysql.Compiled) ([]scalar.Record, error)
	Count(ctx context.Context, c querysql.Compiled) (int, error)
}

// SQLRepository compiles queries to parameterized SQL and hands them to a
// SQLExecutor.
type SQLRepository struct {
	exec     SQLExecutor
	table    string
	compiler *querysql.Compiler
}

// NewSQLRepository creates a repository over one table of a relational
// collaborator.
func NewSQLRepository(exec SQLExecutor, table string) *SQLRepository {
	return &SQLRepository{exec: exec, table: table, compiler: querysql.NewCompiler()}
}

// Find implements Repository.
func (r *SQLRepository) Find(ctx context.Context, q query.Query) (engine.ListResult, error) {
	items, err := r.exec.Select(ctx, r.compiler.Compile(r.table, q))
	if err != nil {
		return engine.ListResult{}, fmt.Errorf("select %s: %w", r.table, err)
	}

	var meta *engine.Meta
	if q.Page != nil {
		// The total re-runs the same filter without the window.
		total, err := r.exec.Count(ctx, r.compiler.CompileCount(r.table, q.Filter))
		if err != nil {
			return engine.ListResult{}, fmt.Errorf("count %s: %w", r.table, err)
		}
		meta = engine.BuildMeta(len(items), q.Page, total)
	}
	return engine.ListResult{Items: items, Meta: meta}, nil
}

// Count implements Repository.
func (r *SQLRepository) Count(ctx context.Context, filter query.Node) (int, error) {
	total, err := r.exec.Count(ctx, r.compiler.CompileCount(r.table, filter))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return total, nil
}
