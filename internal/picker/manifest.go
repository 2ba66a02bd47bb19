// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/snapmerge/pkg/types"
)

// Manifest is a saved selection: a list of paths, relative to the manifest's
// own directory unless absolute.
//
//	files:
//	  - scans/passport.jpg
//	  - scans/visa.png
//	  - cover-letter.pdf
type Manifest struct {
	Files []string `yaml:"files"`
}

// LoadManifest reads a manifest and resolves its paths in listed order.
func (p *Picker) LoadManifest(path string) ([]types.FileEntry, error) {
	abs, err := p.path(path)
	if err != nil {
		return nil, err
	}
	data, err := util.ReadFile(p.fs, abs)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	base := filepath.Dir(abs)
	paths := make([]string, len(m.Files))
	for i, f := range m.Files {
		if filepath.IsAbs(f) {
			paths[i] = f
			continue
		}
		paths[i] = filepath.Join(base, f)
	}
	return p.Resolve(paths)
}

// WriteManifest saves the paths of entries as a manifest at path.
func (p *Picker) WriteManifest(path string, entries []types.FileEntry) error {
	abs, err := p.path(path)
	if err != nil {
		return err
	}
	m := Manifest{Files: make([]string, len(entries))}
	for i, e := range entries {
		m.Files[i] = e.Path
		if m.Files[i] == "" {
			m.Files[i] = e.Name
		}
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := util.WriteFile(p.fs, abs, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
