package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/pack/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPaths struct{}

func (staticPaths) GlobalInstallPath() string  { return "/usr/local/lib/pack" }
func (staticPaths) DefaultInstallPath() string { return "/work/pack_modules" }

func TestPathResolverRoot(t *testing.T) {
	withProject := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(withProject, "package.json"), []byte("{}"), 0o644))
	withoutProject := t.TempDir()

	tests := []struct {
		name     string
		workDir  string
		global   bool
		expected string
	}{
		{"global wins over project", withProject, true, "/usr/local/lib/pack"},
		{"project uses node_modules", withProject, false, filepath.Join(withProject, NodeModulesDir)},
		{"no project uses default path", withoutProject, false, "/work/pack_modules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPathResolver(tt.workDir, staticPaths{})
			assert.Equal(t, tt.expected, r.Root(tt.global))
		})
	}
}

func TestPathResolverPackageDir(t *testing.T) {
	r := NewPathResolver(t.TempDir(), staticPaths{})

	assert.Equal(t, filepath.Join("/usr/local/lib/pack", "demo"), r.PackageDir(true, &model.Descriptor{ID: "abc123", Name: "demo"}))
	assert.Equal(t, filepath.Join("/usr/local/lib/pack", "abc123"), r.PackageDir(true, &model.Descriptor{ID: "abc123"}))
}
