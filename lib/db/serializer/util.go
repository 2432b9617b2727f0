package serializer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ForFormat returns the serializer for a format name (json, yaml).
// The format "auto" (or an empty format) selects the serializer based on the
// extension of path: .yaml and .yml use yaml, everything else json.
func ForFormat(format, path string) (ISnapshotSerializer, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONSerializer(), nil
	case "yaml", "yml":
		return NewYAMLSerializer(), nil
	case "", "auto":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return NewYAMLSerializer(), nil
		default:
			return NewJSONSerializer(), nil
		}
	default:
		return nil, fmt.Errorf("invalid snapshot format %s (expected one of: auto, json, yaml)", format)
	}
}
