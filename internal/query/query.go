package query

// Query is the canonical form every accepted input surface normalizes into.
// It is constructed fresh per invocation, consumed once by the compiler or
// evaluator, and discarded; there is no cross-request identity or caching in
// this layer.
type Query struct {
	Filter     Node
	Sort       SortSpec
	Page       *Page
	Projection Projection
}

// Parse normalizes a raw query envelope. Recognized keys:
//
//	where / filter    filter in any accepted syntax
//	sort / orderBy    sort in any accepted syntax
//	select / fields   projection field list
//	skip, limit       legacy pagination vocabulary
//	offset, top       envelope pagination vocabulary
//
// Unknown keys are ignored so upstream layers can carry transport metadata
// in the same document.
func Parse(raw map[string]any) (Query, error) {
	var q Query
	var err error

	rawFilter, ok := raw["where"]
	if !ok {
		rawFilter = raw["filter"]
	}
	if q.Filter, err = ParseFilter(rawFilter); err != nil {
		return Query{}, err
	}

	rawSort, ok := raw["sort"]
	if !ok {
		rawSort = raw["orderBy"]
	}
	if q.Sort, err = ParseSort(rawSort); err != nil {
		return Query{}, err
	}

	rawProjection, ok := raw["select"]
	if !ok {
		rawProjection = raw["fields"]
	}
	if q.Projection, err = ParseProjection(rawProjection); err != nil {
		return Query{}, err
	}

	if q.Page, err = ResolvePage(raw); err != nil {
		return Query{}, err
	}
	return q, nil
}
