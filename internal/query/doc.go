// Package query provides the canonical query model and the normalizers that
// produce it.
//
// Three historically-evolved filter syntaxes are accepted: positional tuple
// arrays, operator-object maps, and a structured where clause nested under a
// query envelope. Each syntax has its own thin parser feeding one shared
// tagged-union tree (Node); everything downstream (the SQL compiler, the
// in-memory evaluator) operates only on the tree.
//
// Node and the normalized sort/page/projection structures are pure data:
// immutable once built, no references to any record set, safe to share across
// goroutines. Malformed input is rejected here, at normalization time, so the
// compiler and evaluator can be total functions.
package query
