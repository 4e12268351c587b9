package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratadb/strata/internal/scalar"
)

func TestMemory_InsertAssignsID(t *testing.T) {
	m := NewMemory()

	stored := m.Insert(scalar.Record{"name": scalar.String("ada")})

	id, ok := stored["id"].(scalar.String)
	require.True(t, ok, "id should be assigned")
	parsed, err := uuid.Parse(string(id))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestMemory_InsertKeepsExistingID(t *testing.T) {
	m := NewMemory()

	stored := m.Insert(scalar.Record{"id": scalar.String("custom"), "name": scalar.String("ada")})
	assert.Equal(t, scalar.String("custom"), stored["id"])

	// A null id counts as absent.
	stored = m.Insert(scalar.Record{"id": scalar.Null{}})
	assert.NotEqual(t, scalar.Null{}, stored["id"])
}

func TestMemory_SnapshotIsolation(t *testing.T) {
	m := NewMemory()
	original := scalar.Record{"name": scalar.String("ada")}
	m.Insert(original)

	snapshot := m.Records()
	require.Len(t, snapshot, 1)

	// Mutating the caller's record or the snapshot never reaches the store.
	original["name"] = scalar.String("changed")
	snapshot[0]["name"] = scalar.String("also changed")

	fresh := m.Records()
	assert.Equal(t, scalar.String("ada"), fresh[0]["name"])
}

func TestMemory_InsertionOrder(t *testing.T) {
	m := NewMemory()
	for _, name := range []string{"a", "b", "c"} {
		m.Insert(scalar.Record{"name": scalar.String(name)})
	}

	records := m.Records()
	require.Equal(t, 3, m.Len())
	assert.Equal(t, scalar.String("a"), records[0]["name"])
	assert.Equal(t, scalar.String("c"), records[2]["name"])
}
