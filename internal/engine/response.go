package engine

import (
	"github.com/stratadb/strata/internal/query"
	"github.com/stratadb/strata/internal/scalar"
)

// Meta is the pagination metadata block of a list response.
type Meta struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Size    int  `json:"size"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
}

// ListResult is the canonical result envelope. Meta is present only when
// pagination parameters were supplied with the query.
type ListResult struct {
	Items []scalar.Record
	Meta  *Meta
}

// BuildMeta computes pagination metadata. total must come from re-running the
// same filter through a count-capable collaborator, never from len(items):
// the item slice is already windowed.
//
// page is floor(offset/limit)+1 and pages is ceil(total/limit); both are 1
// when the limit is unbounded.
func BuildMeta(itemCount int, page *query.Page, total int) *Meta {
	if page == nil {
		return nil
	}
	m := &Meta{
		Total:   total,
		Page:    1,
		Pages:   1,
		Size:    itemCount,
		HasNext: page.Offset+itemCount < total,
	}
	if page.Limited {
		m.Size = page.Limit
		if page.Limit > 0 {
			m.Page = page.Offset/page.Limit + 1
			m.Pages = (total + page.Limit - 1) / page.Limit
		}
	}
	return m
}

// Envelope renders the result as the plain-map payload handed to upstream
// API layers: {"items": [...], "meta": {...}} with meta omitted when absent.
func (r ListResult) Envelope() map[string]any {
	items := make([]map[string]any, len(r.Items))
	for i, rec := range r.Items {
		items[i] = scalar.ToAnyMap(rec)
	}
	out := map[string]any{"items": items}
	if r.Meta != nil {
		out["meta"] = map[string]any{
			"total":    r.Meta.Total,
			"page":     r.Meta.Page,
			"size":     r.Meta.Size,
			"pages":    r.Meta.Pages,
			"has_next": r.Meta.HasNext,
		}
	}
	return out
}
