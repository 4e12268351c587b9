package query

import (
	"encoding/json"
	"math"
)

// Page is the canonical pagination window. Limited is false when no limit
// was requested, in which case Limit is meaningless.
type Page struct {
	Offset  int
	Limit   int
	Limited bool
}

// ResolvePage reconciles the two historical pagination vocabularies,
// {skip, limit} (legacy) and {offset, top} (query envelope), into one Page.
//
// Returns nil when the input carries none of the four keys, so callers can
// distinguish "no pagination requested" from "offset 0, unbounded". When both
// vocabularies are present the envelope names win. Negative values are an
// ErrCodeInvalidPagination error.
func ResolvePage(raw map[string]any) (*Page, error) {
	offset, offsetSet, err := paginationInt(raw, "offset")
	if err != nil {
		return nil, err
	}
	skip, skipSet, err := paginationInt(raw, "skip")
	if err != nil {
		return nil, err
	}
	top, topSet, err := paginationInt(raw, "top")
	if err != nil {
		return nil, err
	}
	limit, limitSet, err := paginationInt(raw, "limit")
	if err != nil {
		return nil, err
	}

	if !offsetSet && !skipSet && !topSet && !limitSet {
		return nil, nil
	}

	page := &Page{}
	switch {
	case offsetSet:
		page.Offset = offset
	case skipSet:
		page.Offset = skip
	}
	switch {
	case topSet:
		page.Limit, page.Limited = top, true
	case limitSet:
		page.Limit, page.Limited = limit, true
	}
	return page, nil
}

// Slice applies the window to a length and returns the [start, end) bounds.
// Applied strictly after filtering and sorting on the in-memory path.
func (p *Page) Slice(length int) (int, int) {
	start := p.Offset
	if start > length {
		start = length
	}
	end := length
	if p.Limited && start+p.Limit < end {
		end = start + p.Limit
	}
	return start, end
}

func paginationInt(raw map[string]any, key string) (int, bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, false, nil
	}

	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false, paginationErrorf("%s must be an integer, got %q", key, n)
		}
		f = parsed
	default:
		return 0, false, paginationErrorf("%s must be an integer, got %T", key, v)
	}

	if f != math.Trunc(f) {
		return 0, false, paginationErrorf("%s must be an integer, got %v", key, f)
	}
	if f < 0 {
		return 0, false, paginationErrorf("%s must be non-negative, got %v", key, f)
	}
	return int(f), true, nil
}
