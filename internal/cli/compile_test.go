package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompileCommand_YAML(t *testing.T) {
	doc := writeDoc(t, "query.yaml", `
where:
  status: active
  age:
    $gte: 18
sort: age desc
offset: 10
top: 5
`)

	out, err := runCommand(t, "compile", "-t", "users", doc)
	require.NoError(t, err)

	assert.Contains(t, out,
		`SELECT * FROM "users" WHERE "age" >= ? AND "status" = ? ORDER BY "age" DESC LIMIT ? OFFSET ?`)
	assert.Contains(t, out, "?1 = 18")
	assert.Contains(t, out, "?2 = active")
}

func TestCompileCommand_JSONFormat(t *testing.T) {
	doc := writeDoc(t, "query.json", `{"where": {"role": "admin"}}`)

	out, err := runCommand(t, "--format", "json", "compile", "-t", "users", doc)
	require.NoError(t, err)

	var payload struct {
		SQL  string `json:"sql"`
		Args []any  `json:"args"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, `SELECT * FROM "users" WHERE "role" = ?`, payload.SQL)
	assert.Equal(t, []any{"admin"}, payload.Args)
}

func TestCompileCommand_RejectsBadDocument(t *testing.T) {
	doc := writeDoc(t, "query.yaml", `
where:
  $bogus: 1
`)

	_, err := runCommand(t, "compile", "-t", "users", doc)
	assert.Error(t, err)
}

func TestCompileCommand_RequiresTable(t *testing.T) {
	doc := writeDoc(t, "query.yaml", "where:\n  a: 1\n")

	_, err := runCommand(t, "compile", doc)
	assert.Error(t, err)
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	doc := writeDoc(t, "query.yaml", "where:\n  a: 1\n")

	_, err := runCommand(t, "--format", "xml", "compile", "-t", "users", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
