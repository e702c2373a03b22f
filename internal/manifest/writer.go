package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Write serializes the manifest as a single compact JSON document,
// overwriting any previous file at path.
func Write(m Manifest, path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Read loads and parses a manifest file. A missing or malformed file is
// fatal to the upload stage, so errors here carry enough context to be
// reported directly.
func Read(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}
