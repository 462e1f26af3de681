package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML or JSON document and overlays it on base. Keys absent
// from the document keep their base values.
func LoadFile(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(base, data, path)
}

// Parse overlays a YAML or JSON document on base. source names the document
// in errors and selects the format by extension; unknown extensions try JSON
// then YAML.
func Parse(base Config, data []byte, source string) (Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Config{}, fmt.Errorf("config: file %s is empty", source)
	}

	out := base.Clone()
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		if err := json.Unmarshal(data, &out); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", source, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", source, err)
		}
	default:
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		out = base.Clone()
		if err := yaml.Unmarshal(data, &out); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
		}
	}
	return out, nil
}
