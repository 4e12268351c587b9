package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCommand_RecordsBackend(t *testing.T) {
	records := writeDoc(t, "people.json", `[
  {"id": "1", "name": "ada", "age": 36},
  {"id": "2", "name": "bob", "age": 17},
  {"id": "3", "name": "eve", "age": 52}
]`)
	doc := writeDoc(t, "query.yaml", `
where:
  age:
    $gte: 18
sort: age asc
limit: 10
`)

	out, err := runCommand(t, "query", "--records", records, doc)
	require.NoError(t, err)

	var payload struct {
		Items []map[string]any `json:"items"`
		Meta  map[string]any   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	require.Len(t, payload.Items, 2)
	assert.Equal(t, "ada", payload.Items[0]["name"])
	assert.Equal(t, "eve", payload.Items[1]["name"])
	assert.Equal(t, float64(2), payload.Meta["total"])
}

func TestQueryCommand_RequiresBackend(t *testing.T) {
	doc := writeDoc(t, "query.yaml", "where:\n  a: 1\n")

	_, err := runCommand(t, "query", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db or --records")
}

func TestQueryCommand_BackendsAreExclusive(t *testing.T) {
	doc := writeDoc(t, "query.yaml", "where:\n  a: 1\n")

	_, err := runCommand(t, "query", "--db", "x.db", "--records", "y.json", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
