package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stratadb/strata/internal/scalar"
)

// File is a memory store persisted as a JSON array of records. Writes go to
// a temp file in the same directory followed by an atomic rename, so a crash
// mid-save never leaves a truncated store behind.
type File struct {
	path string
	mem  *Memory
}

// OpenFile loads the record set at path. A missing file yields an empty
// store; the file is created on the first Save.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, mem: NewMemory()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	records := make([]scalar.Record, len(raw))
	for i, m := range raw {
		rec, err := scalar.RecordFromAny(m)
		if err != nil {
			return nil, fmt.Errorf("%s record %d: %w", path, i, err)
		}
		records[i] = rec
	}
	f.mem.replace(records)
	return f, nil
}

// Insert stores a record in memory. Call Save to persist.
func (f *File) Insert(rec scalar.Record) scalar.Record {
	return f.mem.Insert(rec)
}

// Records returns a snapshot of all records in insertion order.
func (f *File) Records() []scalar.Record {
	return f.mem.Records()
}

// Save persists the current record set with an atomic rename.
func (f *File) Save() error {
	records := f.mem.Records()
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		out[i] = scalar.ToAnyMap(rec)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
