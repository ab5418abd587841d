package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathsHonourPackHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)

	dir, err := GetHomeDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)

	cfg, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.json"), cfg)

	cache, err := GetCacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cache"), cache)
}

func TestGetHomeDirDefault(t *testing.T) {
	t.Setenv(HomeEnv, "")
	t.Setenv("HOME", "/home/tester")

	dir, err := GetHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".pack"), dir)
}
