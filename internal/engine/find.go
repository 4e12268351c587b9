package engine

import (
	"sort"

	"github.com/stratadb/strata/internal/query"
	"github.com/stratadb/strata/internal/scalar"
)

// Filter returns the records matching the filter node, preserving input
// order. The input slice is never mutated.
func Filter(records []scalar.Record, node query.Node) []scalar.Record {
	out := make([]scalar.Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, node) {
			out = append(out, rec)
		}
	}
	return out
}

// Count returns the number of records matching the filter node.
func Count(records []scalar.Record, node query.Node) int {
	n := 0
	for _, rec := range records {
		if Matches(rec, node) {
			n++
		}
	}
	return n
}

// Sort returns a sorted copy of records. The sort is stable: records that
// compare equal on every key retain their relative input order, which makes
// repeated pagination over unchanged data deterministic.
//
// Cross-type ordering follows scalar.Compare, so the result matches ORDER BY
// on the SQL path.
func Sort(records []scalar.Record, spec query.SortSpec) []scalar.Record {
	if len(spec) == 0 {
		return records
	}
	out := make([]scalar.Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		for _, key := range spec {
			c := scalar.Compare(fieldOrNull(out[i], key.Field), fieldOrNull(out[j], key.Field))
			if c == 0 {
				continue
			}
			if key.Direction == query.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out
}

// Find runs the full in-memory pipeline: filter, stable sort, pagination
// window, projection. The pagination window is applied strictly after
// filtering and sorting.
func Find(records []scalar.Record, q query.Query) []scalar.Record {
	out := Sort(Filter(records, q.Filter), q.Sort)

	if q.Page != nil {
		start, end := q.Page.Slice(len(out))
		out = out[start:end]
	}

	if q.Projection != nil {
		projected := make([]scalar.Record, len(out))
		for i, rec := range out {
			projected[i] = q.Projection.Apply(rec)
		}
		out = projected
	}
	return out
}

func fieldOrNull(rec scalar.Record, field string) scalar.Value {
	if v, ok := rec[field]; ok && v != nil {
		return v
	}
	return scalar.Null{}
}
