// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink delivers converted artifacts to the user: saved to disk
// under their conventional filename, or offered as a download link from a
// local HTTP server.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/snapmerge/pkg/types"
)

// ErrNoArtifact is returned when there is nothing to deliver.
var ErrNoArtifact = errors.New("no artifact to save")

// Filename returns the name an artifact is saved under: the configured
// override, else the artifact's own suggestion, else ArtifactFilename.
func Filename(a *types.Artifact, cfg types.DownloadConfig) string {
	switch {
	case cfg.Filename != "":
		return cfg.Filename
	case a != nil && a.Filename != "":
		return a.Filename
	default:
		return types.ArtifactFilename
	}
}

// Save writes the artifact into cfg.OutputDir through a temporary file that
// is renamed into place, so a partial PDF never appears under the final
// name. It returns the written path.
func Save(a *types.Artifact, cfg types.DownloadConfig) (string, error) {
	if a == nil {
		return "", ErrNoArtifact
	}
	dir := cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	dest := filepath.Join(dir, Filename(a, cfg))

	tmpFile, err := os.CreateTemp(dir, ".snapmerge-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(a.Content)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing artifact: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return dest, nil
}

// Write copies the artifact content to w.
func Write(w io.Writer, a *types.Artifact) error {
	if a == nil {
		return ErrNoArtifact
	}
	if _, err := w.Write(a.Content); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}
