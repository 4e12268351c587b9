// Package engine executes canonical queries against in-memory record sets.
//
// The evaluator implements the same operator semantics as the SQL compiler,
// bit for bit: null handling follows three-valued logic (a comparison against
// an absent value never matches except through the explicit null forms of eq
// and ne), IN over the empty set matches nothing, NOT IN over the empty set
// matches everything, and BETWEEN is inclusive on both bounds. Cross-path
// equivalence is a tested property, not an aspiration; see the repo package
// tests.
//
// Everything here is synchronous, pure, and free of shared mutable state:
// safe to call concurrently and repeatedly. The caller owns the record set
// and is responsible for presenting a consistent snapshot for the duration
// of one call.
package engine
