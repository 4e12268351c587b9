package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stratadb/strata/internal/query"
)

// LoadQueryDoc reads a query document (YAML or JSON by extension, YAML
// otherwise) and normalizes it into the canonical query form.
func LoadQueryDoc(path string) (query.Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return query.Query{}, fmt.Errorf("read query document: %w", err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return query.Query{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return query.Query{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	q, err := query.Parse(raw)
	if err != nil {
		return query.Query{}, fmt.Errorf("normalize %s: %w", path, err)
	}
	return q, nil
}
