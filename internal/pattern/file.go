package pattern

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a pattern from YAML or JSON and checks it against the file
// schema. It does not apply Validate's turn limits.
func Parse(data []byte) (*Pattern, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse pattern: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parse pattern: empty document")
	}

	// Round-trip through JSON so the schema sees plain JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("parse pattern: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("parse pattern: %w", err)
	}
	if err := CheckSchema(generic); err != nil {
		return nil, err
	}

	var p Pattern
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode pattern: %w", err)
	}
	p.FillOrientations()
	return &p, nil
}

// Load reads a pattern file.
func Load(path string) (*Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Marshal encodes the pattern as indented JSON, or YAML for any other format.
func Marshal(p *Pattern, format string) ([]byte, error) {
	if strings.EqualFold(format, "json") {
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return yaml.Marshal(p)
}

// Save writes the pattern to path, as JSON when the extension is .json and
// YAML otherwise. The write goes through a temp file and rename.
func Save(path string, p *Pattern) error {
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	data, err := Marshal(p, format)
	if err != nil {
		return fmt.Errorf("encode pattern: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".pattern-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
