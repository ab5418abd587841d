package installer

import (
	"path/filepath"

	"github.com/glorpus-work/pack/pkg/model"
	"github.com/glorpus-work/pack/pkg/project"
)

// NodeModulesDir is the install root inside a project with a package.json.
const NodeModulesDir = "node_modules"

// PathSettings supplies the configured install roots.
type PathSettings interface {
	GlobalInstallPath() string
	DefaultInstallPath() string
}

// PathResolver decides where packages live.
type PathResolver struct {
	WorkDir  string
	Settings PathSettings
}

// NewPathResolver creates a resolver for the given working directory.
func NewPathResolver(workDir string, settings PathSettings) *PathResolver {
	return &PathResolver{WorkDir: workDir, Settings: settings}
}

// Root returns the install root: the global path with global set, the
// project's node_modules when the working directory has a package.json, and
// the default install path otherwise.
func (r *PathResolver) Root(global bool) string {
	switch {
	case global:
		return r.Settings.GlobalInstallPath()
	case project.Exists(r.WorkDir):
		return filepath.Join(r.WorkDir, NodeModulesDir)
	default:
		return r.Settings.DefaultInstallPath()
	}
}

// PackageDir returns the install directory of d.
func (r *PathResolver) PackageDir(global bool, d *model.Descriptor) string {
	return filepath.Join(r.Root(global), d.DisplayName())
}
