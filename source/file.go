package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/glowfork/halo"
)

// File reads a snapshot from a JSON or YAML document, chosen by file
// extension. Every fetch re-reads the file, so edits show up on the next
// refresh.
type File struct {
	Path string
}

// Fetch implements halo.Source.
func (f File) Fetch(context.Context) (halo.Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return halo.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data, filepath.Ext(f.Path))
}

// Parse decodes a snapshot document. ext selects the format: ".json",
// ".yaml", or ".yml".
func Parse(data []byte, ext string) (halo.Snapshot, error) {
	var snap halo.Snapshot
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &snap); err != nil {
			return halo.Snapshot{}, fmt.Errorf("parse json snapshot: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return halo.Snapshot{}, fmt.Errorf("parse yaml snapshot: %w", err)
		}
	default:
		return halo.Snapshot{}, fmt.Errorf("unsupported snapshot format %q", ext)
	}
	return snap, nil
}
