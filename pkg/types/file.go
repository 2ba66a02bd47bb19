// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the snapmerge client:
// the files a user selects, the artifact the conversion service returns,
// and the configuration for each component.
package types

import (
	"bytes"
	"io"
)

// Source opens the raw content of a selected file. Content is read lazily,
// at submission time, so a selection holds no file data in memory.
type Source interface {
	Open() (io.ReadCloser, error)
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func() (io.ReadCloser, error)

// Open calls f.
func (f SourceFunc) Open() (io.ReadCloser, error) {
	return f()
}

// BytesSource returns a Source backed by an in-memory byte slice.
func BytesSource(b []byte) Source {
	return SourceFunc(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	})
}

// FileEntry is one user-selected file awaiting submission.
// Entries are created in bulk by a selection and never mutated in place.
type FileEntry struct {
	// Name is the original filename sent to the conversion service.
	// Duplicate names across entries are legal.
	Name string `json:"name" yaml:"name"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// Path is the location the entry was resolved from, when known.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Source opens the file content.
	Source Source `json:"-" yaml:"-"`
}
