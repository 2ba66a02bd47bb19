// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/snapmerge/pkg/types"
)

func artifact(content string) *types.Artifact {
	return &types.Artifact{Content: []byte(content), Filename: types.ArtifactFilename, ContentType: "application/pdf"}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := Save(artifact("%PDF-1.7 body"), types.DownloadConfig{OutputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "snapmerge-converted.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, ".snapmerge-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	cfg := types.DownloadConfig{OutputDir: dir, Filename: "visa.pdf"}

	_, err := Save(artifact("first"), cfg)
	require.NoError(t, err)
	path, err := Save(artifact("second"), cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, "visa.pdf", filepath.Base(path))
}

func TestSaveNoArtifact(t *testing.T) {
	_, err := Save(nil, types.DownloadConfig{OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoArtifact)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		a    *types.Artifact
		cfg  types.DownloadConfig
		want string
	}{
		{name: "override", a: artifact(""), cfg: types.DownloadConfig{Filename: "mine.pdf"}, want: "mine.pdf"},
		{name: "artifact suggestion", a: &types.Artifact{Filename: "other.pdf"}, want: "other.pdf"},
		{name: "convention", a: &types.Artifact{}, want: types.ArtifactFilename},
		{name: "nil artifact", want: types.ArtifactFilename},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.a, tt.cfg))
		})
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, artifact("pdf")))
	assert.Equal(t, "pdf", buf.String())
	assert.ErrorIs(t, Write(&buf, nil), ErrNoArtifact)
}
