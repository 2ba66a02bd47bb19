// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package picker turns user-chosen paths into file entries. It plays the
// role of a file-picker dialog: whatever the user names is selected, with
// no filtering by extension, MIME type or size. Acceptance is left to the
// conversion service.
package picker

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/pdiddy/snapmerge/pkg/types"
)

// Picker resolves paths against a filesystem.
type Picker struct {
	fs billy.Filesystem
	// absolute makes relative paths absolute against the working directory
	// before they reach fs. Set for the OS filesystem rooted at "/".
	absolute bool
}

// New creates a Picker over fs. Paths are used as given.
func New(fs billy.Filesystem) *Picker {
	return &Picker{fs: fs}
}

// OS creates a Picker over the local filesystem.
func OS() *Picker {
	return &Picker{fs: osfs.New(string(filepath.Separator)), absolute: true}
}

// Resolve returns one entry per path, in order. A directory contributes its
// regular files in name order (not recursive). Missing paths are an error.
func (p *Picker) Resolve(paths []string) ([]types.FileEntry, error) {
	entries := make([]types.FileEntry, 0, len(paths))
	for _, raw := range paths {
		path, err := p.path(raw)
		if err != nil {
			return nil, err
		}
		fi, err := p.fs.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", raw, err)
		}
		if !fi.IsDir() {
			entries = append(entries, p.entry(path, fi))
			continue
		}
		dirEntries, err := p.dir(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, dirEntries...)
	}
	return entries, nil
}

func (p *Picker) dir(path string) ([]types.FileEntry, error) {
	infos, err := p.fs.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", path, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	var entries []types.FileEntry
	for _, fi := range infos {
		if !fi.Mode().IsRegular() {
			continue
		}
		entries = append(entries, p.entry(p.fs.Join(path, fi.Name()), fi))
	}
	return entries, nil
}

func (p *Picker) entry(path string, fi os.FileInfo) types.FileEntry {
	fs := p.fs
	return types.FileEntry{
		Name: filepath.Base(path),
		Size: fi.Size(),
		Path: path,
		Source: types.SourceFunc(func() (io.ReadCloser, error) {
			return fs.Open(path)
		}),
	}
}

func (p *Picker) path(raw string) (string, error) {
	if !p.absolute || filepath.IsAbs(raw) {
		return raw, nil
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", raw, err)
	}
	return abs, nil
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count for listings: "0 Bytes", "512 Bytes",
// "1.5 KB", "1.17 MB". Values are rounded to two decimals.
func FormatSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	const k = 1024.0
	i := int(math.Floor(math.Log(float64(n)) / math.Log(k)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(n) / math.Pow(k, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
