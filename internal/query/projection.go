package query

import "github.com/stratadb/strata/internal/scalar"

// Projection is the requested field subset. nil means "all fields".
type Projection []string

// Apply trims a record to the projected fields. A nil projection returns the
// record unchanged. No identifier field is implicitly force-included; callers
// that want the id in a projected result must request it explicitly.
func (p Projection) Apply(rec scalar.Record) scalar.Record {
	if p == nil {
		return rec
	}
	out := make(scalar.Record, len(p))
	for _, field := range p {
		if v, ok := rec[field]; ok {
			out[field] = v
		}
	}
	return out
}

// ParseProjection normalizes a projection input: nil, a []string, or an
// array of field names.
func ParseProjection(raw any) (Projection, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case Projection:
		return v, nil
	case []string:
		return Projection(v), nil
	case []any:
		fields := make(Projection, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, filterErrorf("projection element %d: expected field name, got %T", i, item)
			}
			fields = append(fields, s)
		}
		return fields, nil
	default:
		return nil, filterErrorf("unsupported projection shape %T", raw)
	}
}
