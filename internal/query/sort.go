package query

import (
	"encoding/json"
	"sort"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortKey is one (field, direction) pair.
type SortKey struct {
	Field     string
	Direction Direction
}

// SortSpec is an ordered list of sort keys: primary, secondary, and so on.
// Downstream sorting must be stable for deterministic pagination; both
// execution paths guarantee that.
type SortSpec []SortKey

// ParseSort normalizes any accepted sort syntax into a SortSpec.
//
// Accepted inputs, in order of disambiguation:
//   - an already-canonical SortSpec (idempotent)
//   - an array of [field, direction] tuples
//   - an array of {field, order} objects
//   - a map of {field: 1|-1|"asc"|"desc"} (ordered by sorted field name,
//     since Go maps carry no order)
//   - a comma-delimited string "field1 asc, field2 desc"
//
// Direction defaults to ascending whenever omitted.
func ParseSort(raw any) (SortSpec, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case SortSpec:
		return v, nil
	case []any:
		return parseSortList(v)
	case map[string]any:
		return parseSortMap(v)
	case string:
		return parseSortString(v)
	default:
		return nil, sortErrorf("unsupported sort shape %T", raw)
	}
}

func parseSortList(items []any) (SortSpec, error) {
	spec := make(SortSpec, 0, len(items))
	for i, item := range items {
		switch elem := item.(type) {
		case []any:
			key, err := parseSortTuple(elem)
			if err != nil {
				return nil, err
			}
			spec = append(spec, key)
		case map[string]any:
			key, err := parseSortObject(elem)
			if err != nil {
				return nil, err
			}
			spec = append(spec, key)
		case string:
			key, err := parseSortSegment(elem)
			if err != nil {
				return nil, err
			}
			spec = append(spec, key)
		default:
			return nil, sortErrorf("sort element %d: unsupported shape %T", i, item)
		}
	}
	return spec, nil
}

func parseSortTuple(tuple []any) (SortKey, error) {
	if len(tuple) == 0 || len(tuple) > 2 {
		return SortKey{}, sortErrorf("sort tuple must be [field] or [field, direction], got %d elements", len(tuple))
	}
	field, ok := tuple[0].(string)
	if !ok {
		return SortKey{}, sortErrorf("sort field must be a string, got %T", tuple[0])
	}
	dir := Asc
	if len(tuple) == 2 {
		var err error
		dir, err = parseDirection(tuple[1])
		if err != nil {
			return SortKey{}, err
		}
	}
	return SortKey{Field: field, Direction: dir}, nil
}

func parseSortObject(obj map[string]any) (SortKey, error) {
	rawField, ok := obj["field"]
	if !ok {
		return SortKey{}, sortErrorf("sort object missing \"field\" key")
	}
	field, ok := rawField.(string)
	if !ok {
		return SortKey{}, sortErrorf("sort field must be a string, got %T", rawField)
	}
	dir := Asc
	if rawOrder, ok := obj["order"]; ok {
		var err error
		dir, err = parseDirection(rawOrder)
		if err != nil {
			return SortKey{}, err
		}
	}
	return SortKey{Field: field, Direction: dir}, nil
}

func parseSortMap(m map[string]any) (SortSpec, error) {
	fields := make([]string, 0, len(m))
	for k := range m {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	spec := make(SortSpec, 0, len(fields))
	for _, field := range fields {
		dir, err := parseDirection(m[field])
		if err != nil {
			return nil, err
		}
		spec = append(spec, SortKey{Field: field, Direction: dir})
	}
	return spec, nil
}

func parseSortString(s string) (SortSpec, error) {
	var spec SortSpec
	for _, segment := range strings.Split(s, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		key, err := parseSortSegment(segment)
		if err != nil {
			return nil, err
		}
		spec = append(spec, key)
	}
	return spec, nil
}

func parseSortSegment(segment string) (SortKey, error) {
	parts := strings.Fields(segment)
	switch len(parts) {
	case 1:
		return SortKey{Field: parts[0], Direction: Asc}, nil
	case 2:
		dir, err := parseDirection(parts[1])
		if err != nil {
			return SortKey{}, err
		}
		return SortKey{Field: parts[0], Direction: dir}, nil
	default:
		return SortKey{}, sortErrorf("unparseable sort segment %q", segment)
	}
}

// parseDirection accepts "asc"/"desc" (case-insensitive), 1/-1, or an
// absent value (nil), which defaults to ascending.
func parseDirection(raw any) (Direction, error) {
	switch v := raw.(type) {
	case nil:
		return Asc, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "asc":
			return Asc, nil
		case "desc":
			return Desc, nil
		default:
			return "", sortErrorf("unknown sort direction %q", v)
		}
	case Direction:
		return v, nil
	case int:
		return numericDirection(float64(v))
	case int64:
		return numericDirection(float64(v))
	case float64:
		return numericDirection(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return "", sortErrorf("unknown sort direction %q", v)
		}
		return numericDirection(f)
	default:
		return "", sortErrorf("unsupported sort direction %T", raw)
	}
}

func numericDirection(f float64) (Direction, error) {
	switch f {
	case 1:
		return Asc, nil
	case -1:
		return Desc, nil
	default:
		return "", sortErrorf("sort direction must be 1 or -1, got %v", f)
	}
}
