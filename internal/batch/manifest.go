package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestEntry represents one document in the output manifest.
type ManifestEntry struct {
	File       string         `json:"file"`
	Version    string         `json:"version,omitempty"`
	Geometries int            `json:"geometries"`
	Primitives int            `json:"primitives"`
	Triangles  int            `json:"triangles"`
	Vertices   int            `json:"vertices"`
	Materials  int            `json:"materials"`
	Bounds     *[2][3]float32 `json:"bounds,omitempty"` // min, max
	Textures   []string       `json:"textures,omitempty"`
	Missing    []string       `json:"missing_textures,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Manifest describes a whole batch run.
type Manifest struct {
	Imported  int             `json:"imported"`
	Failed    int             `json:"failed"`
	Documents []ManifestEntry `json:"documents"`
}

// NewManifest summarises results. Paths are made relative to base when
// possible.
func NewManifest(base string, results []Result) Manifest {
	m := Manifest{Documents: make([]ManifestEntry, len(results))}
	for i, r := range results {
		e := ManifestEntry{
			File:       relTo(base, r.Path),
			Version:    r.Version,
			Geometries: r.Geometries,
			Primitives: r.Primitives,
			Triangles:  r.Triangles,
			Vertices:   r.Vertices,
			Materials:  r.Materials,
			Missing:    r.Missing,
			Error:      r.Error,
		}
		if !r.Bounds.IsEmpty() {
			e.Bounds = &[2][3]float32{r.Bounds.Min, r.Bounds.Max}
		}
		for _, t := range r.Textures {
			e.Textures = append(e.Textures, relTo(base, t))
		}
		if r.Success {
			m.Imported++
		} else {
			m.Failed++
		}
		m.Documents[i] = e
	}
	return m
}

// WriteManifest writes the manifest for results to path.
func WriteManifest(path string, results []Result) error {
	m := NewManifest(filepath.Dir(path), results)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
