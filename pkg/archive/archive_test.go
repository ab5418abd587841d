package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestCreateExcludesHiddenPaths(t *testing.T) {
	source := t.TempDir()
	writeTree(t, source, map[string]string{
		"package.json":        `{"name":"demo","version":"1.0.0"}`,
		"index.js":            "console.log(1)",
		"lib/util.js":         "module.exports = {}",
		".env":                "SECRET=1",
		".git/config":         "[core]",
		"lib/.cache/tmp.js":   "x",
		"docs/.hidden/readme": "x",
	})

	am := NewManager()
	archivePath := filepath.Join(t.TempDir(), "demo.tar.gz")

	entries, err := am.Create(context.Background(), source, archivePath)
	require.NoError(t, err)
	assert.Equal(t, 3, entries)

	names, err := am.List(context.Background(), archivePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.js", "lib/util.js", "package.json"}, names)
}

func TestCreateRejectsMissingSource(t *testing.T) {
	_, err := NewManager().Create(context.Background(), filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "x.tar.gz"))
	assert.Error(t, err)
}

func TestCreateTempCleanup(t *testing.T) {
	source := t.TempDir()
	writeTree(t, source, map[string]string{"index.js": "console.log(1)"})

	path, entries, cleanup, err := NewManager().CreateTemp(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, 1, entries)
	assert.FileExists(t, path)
	assert.Regexp(t, `pack-.*\.tar\.gz$`, filepath.Base(path))

	cleanup()
	assert.NoFileExists(t, path)
}

func TestCreateTempFailure(t *testing.T) {
	path, entries, cleanup, err := NewManager().CreateTemp(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Empty(t, path)
	assert.Zero(t, entries)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".env"))
	assert.True(t, isHidden("a/.b/c"))
	assert.False(t, isHidden("a/b.c"))
	assert.False(t, isHidden("index.js"))
}
