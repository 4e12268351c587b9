// Package scalar provides the closed value types shared by every layer of the
// query engine.
//
// This package contains type definitions and pure conversion/comparison helpers
// only. All other internal packages import scalar; scalar imports nothing
// internal. This keeps it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Value is sealed: only Null, String, Number, Bool, and Time implement it
//   - Records never hold arrays or nested objects; those shapes belong to
//     filter operands, which the query package handles
//   - Comparison order is total and matches the SQL backend's collation so
//     that sorting is identical on both execution paths
package scalar
