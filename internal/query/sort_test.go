package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort_Nil(t *testing.T) {
	spec, err := ParseSort(nil)
	require.NoError(t, err)
	assert.Nil(t, spec)
}

func TestParseSort_Idempotent(t *testing.T) {
	original := SortSpec{{Field: "age", Direction: Asc}}
	spec, err := ParseSort(original)
	require.NoError(t, err)
	assert.Equal(t, original, spec)
}

func TestParseSort_TupleArray(t *testing.T) {
	spec, err := ParseSort([]any{
		[]any{"age", "asc"},
		[]any{"name", "DESC"},
		[]any{"id"},
	})
	require.NoError(t, err)

	assert.Equal(t, SortSpec{
		{Field: "age", Direction: Asc},
		{Field: "name", Direction: Desc},
		{Field: "id", Direction: Asc},
	}, spec)
}

func TestParseSort_ObjectArray(t *testing.T) {
	spec, err := ParseSort([]any{
		map[string]any{"field": "age", "order": "desc"},
		map[string]any{"field": "name"},
	})
	require.NoError(t, err)

	assert.Equal(t, SortSpec{
		{Field: "age", Direction: Desc},
		{Field: "name", Direction: Asc},
	}, spec)
}

func TestParseSort_DirectionMap(t *testing.T) {
	// Go maps carry no order; map-shaped specs order by sorted field name.
	spec, err := ParseSort(map[string]any{"b": -1, "a": 1})
	require.NoError(t, err)

	assert.Equal(t, SortSpec{
		{Field: "a", Direction: Asc},
		{Field: "b", Direction: Desc},
	}, spec)
}

func TestParseSort_String(t *testing.T) {
	spec, err := ParseSort("age asc, name desc")
	require.NoError(t, err)

	assert.Equal(t, SortSpec{
		{Field: "age", Direction: Asc},
		{Field: "name", Direction: Desc},
	}, spec)

	spec, err = ParseSort("age")
	require.NoError(t, err)
	assert.Equal(t, SortSpec{{Field: "age", Direction: Asc}}, spec)
}

func TestParseSort_NumericDirections(t *testing.T) {
	spec, err := ParseSort([]any{[]any{"age", -1}, []any{"name", 1}})
	require.NoError(t, err)

	assert.Equal(t, Desc, spec[0].Direction)
	assert.Equal(t, Asc, spec[1].Direction)

	// YAML and JSON decoders can surface numbers as float64.
	spec, err = ParseSort(map[string]any{"age": float64(-1)})
	require.NoError(t, err)
	assert.Equal(t, Desc, spec[0].Direction)
}

func TestParseSort_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input any
	}{
		{name: "bad direction string", input: "age sideways"},
		{name: "bad direction number", input: map[string]any{"age": 2}},
		{name: "too many segment tokens", input: "age asc extra"},
		{name: "object missing field", input: []any{map[string]any{"order": "asc"}}},
		{name: "unsupported shape", input: 42},
		{name: "bad tuple arity", input: []any{[]any{"age", "asc", "x"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSort(tc.input)
			require.Error(t, err)
			assert.True(t, IsInvalidSortSpec(err), "want INVALID_SORT_SPEC, got %v", err)
		})
	}
}
