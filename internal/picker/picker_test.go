// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/snapmerge/pkg/types"
)

// newFS builds an in-memory filesystem holding files (path -> content).
func newFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for path, content := range files {
		require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func names(entries []types.FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func read(t *testing.T, e types.FileEntry) string {
	t.Helper()
	rc, err := e.Source.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestResolveNoFiltering(t *testing.T) {
	fs := newFS(t, map[string]string{
		"docs/passport.jpg":   "jpg",
		"docs/letter.docx":    "docx",
		"docs/README":         "readme",
		"docs/archive.tar.gz": "tgz",
		"empty.bin":           "",
	})

	entries, err := New(fs).Resolve([]string{"docs/letter.docx", "empty.bin", "docs/README", "docs/passport.jpg", "docs/archive.tar.gz"})
	require.NoError(t, err)

	assert.Equal(t, []string{"letter.docx", "empty.bin", "README", "passport.jpg", "archive.tar.gz"}, names(entries))
	assert.Equal(t, int64(4), entries[0].Size)
	assert.Equal(t, int64(0), entries[1].Size)
	assert.Equal(t, "docx", read(t, entries[0]))
}

func TestResolveDuplicatesKept(t *testing.T) {
	fs := newFS(t, map[string]string{"a/scan.png": "1", "b/scan.png": "22"})

	entries, err := New(fs).Resolve([]string{"a/scan.png", "b/scan.png", "a/scan.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"scan.png", "scan.png", "scan.png"}, names(entries))
	assert.Equal(t, "22", read(t, entries[1]))
}

func TestResolveDirectory(t *testing.T) {
	fs := newFS(t, map[string]string{
		"scans/c.png":        "c",
		"scans/a.pdf":        "a",
		"scans/b.txt":        "b",
		"scans/nested/d.png": "d",
	})

	entries, err := New(fs).Resolve([]string{"scans"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.txt", "c.png"}, names(entries))
}

func TestResolveEmpty(t *testing.T) {
	entries, err := New(memfs.New()).Resolve(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResolveMissing(t *testing.T) {
	_, err := New(memfs.New()).Resolve([]string{"nope.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.png")
}

func TestResolveContentIsLazy(t *testing.T) {
	fs := newFS(t, map[string]string{"a.png": "old"})
	entries, err := New(fs).Resolve([]string{"a.png"})
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(fs, "a.png", []byte("new"), 0o644))
	assert.Equal(t, "new", read(t, entries[0]))
}

func TestOSRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.heic")
	require.NoError(t, os.WriteFile(path, []byte("heic"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	entries, err := OS().Resolve([]string{"photo.heic"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "photo.heic", entries[0].Name)
	assert.Equal(t, path, entries[0].Path)
	assert.Equal(t, "heic", read(t, entries[0]))
}

func TestManifestRoundTrip(t *testing.T) {
	fs := newFS(t, map[string]string{
		"job/scans/a.png": "a",
		"job/cover.pdf":   "cover",
	})
	p := New(fs)
	require.NoError(t, util.WriteFile(fs, "job/files.yaml", []byte("files:\n  - cover.pdf\n  - scans/a.png\n"), 0o644))

	entries, err := p.LoadManifest("job/files.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"cover.pdf", "a.png"}, names(entries))
	assert.Equal(t, "cover", read(t, entries[0]))

	require.NoError(t, p.WriteManifest("saved.yaml", entries))
	again, err := p.LoadManifest("saved.yaml")
	require.NoError(t, err)
	assert.Equal(t, names(entries), names(again))
}

func TestManifestErrors(t *testing.T) {
	fs := newFS(t, map[string]string{
		"bad.yaml":     "files: [unterminated",
		"missing.yaml": "files:\n  - ghost.png\n",
	})
	p := New(fs)

	_, err := p.LoadManifest("absent.yaml")
	assert.ErrorContains(t, err, "reading manifest")

	_, err = p.LoadManifest("bad.yaml")
	assert.ErrorContains(t, err, "parsing manifest")

	_, err = p.LoadManifest("missing.yaml")
	assert.ErrorContains(t, err, "ghost.png")
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{500 * 1024, "500 KB"},
		{1228800, "1.17 MB"},
		{5 << 30, "5 GB"},
		{3 << 40, "3 TB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in), "FormatSize(%d)", tt.in)
	}
}
