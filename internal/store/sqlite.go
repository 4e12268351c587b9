package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stratadb/strata/internal/querysql"
	"github.com/stratadb/strata/internal/scalar"
)

// Store provides relational storage backed by SQLite.
// Uses WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateTable creates a table with the given columns if it does not exist.
// Columns are untyped; SQLite's dynamic typing carries the scalar values as
// bound. Identifiers go through the same quoting rules as the compiler.
func (s *Store) CreateTable(ctx context.Context, table string, columns []string) error {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = querysql.QuoteIdent(col)
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		querysql.QuoteIdent(table), strings.Join(quoted, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// Insert writes one record. Column order is sorted field name so the
// generated statement is deterministic; all values are bound, never
// interpolated.
func (s *Store) Insert(ctx context.Context, table string, rec scalar.Record) error {
	fields := make([]string, 0, len(rec))
	for k := range rec {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		cols[i] = querysql.QuoteIdent(field)
		marks[i] = "?"
		args[i] = scalar.Param(rec[field])
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		querysql.QuoteIdent(table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Select executes a compiled query and scans the rows into records.
func (s *Store) Select(ctx context.Context, c querysql.Compiled) ([]scalar.Record, error) {
	rows, err := s.db.QueryContext(ctx, c.SQL, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	var records []scalar.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return records, nil
}

// Count executes a compiled COUNT query and returns the total.
func (s *Store) Count(ctx context.Context, c querysql.Compiled) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, c.SQL, c.Args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("execute count: %w", err)
	}
	return total, nil
}

// scanRecord scans one SQL row into a Record keyed by column name.
func scanRecord(rows *sql.Rows) (scalar.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := make(scalar.Record, len(columns))
	for i, col := range columns {
		v, err := scalar.FromSQL(values[i])
		if err != nil {
			return nil, fmt.Errorf("convert column %s: %w", col, err)
		}
		rec[col] = v
	}
	return rec, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
