// Package installed inspects and removes packages below an install root.
// A directory counts as an installed package only when it holds a manifest.
package installed

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/fsutil"
	"github.com/glorpus-work/pack/pkg/installer"
	"github.com/glorpus-work/pack/pkg/model"
	"github.com/hashicorp/go-version"
)

// Package is one installed package.
type Package struct {
	Name       string            `json:"name" yaml:"name"`
	ID         string            `json:"id" yaml:"id"`
	Version    string            `json:"version" yaml:"version"`
	Type       string            `json:"type" yaml:"type"`
	Dir        string            `json:"dir" yaml:"dir"`
	Size       int64             `json:"size" yaml:"size"`
	Descriptor *model.Descriptor `json:"-" yaml:"-"`
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// List returns the packages installed below root, ordered by name and then
// version. A missing root is an empty list. Directories whose manifest
// cannot be read are skipped with a warning.
func List(root string) ([]Package, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.IOError(err, "failed to read install root %s", root)
	}

	var packages []Package
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		pkg, ok := load(dir)
		if !ok {
			continue
		}
		packages = append(packages, pkg)
	}

	sort.SliceStable(packages, func(i, j int) bool {
		if packages[i].Name != packages[j].Name {
			return packages[i].Name < packages[j].Name
		}
		return versionLess(packages[i].Version, packages[j].Version)
	})
	return packages, nil
}

func load(dir string) (Package, bool) {
	desc, err := installer.ReadManifest(dir)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			logger.Warn("Skipping package with unreadable manifest", logger.Fields{"dir": dir, "error": err.Error()})
		}
		return Package{}, false
	}

	size, err := fsutil.DirSize(dir, func(rel string) bool { return rel == model.ManifestFile })
	if err != nil {
		logger.Warn("Cannot compute package size", logger.Fields{"dir": dir, "error": err.Error()})
	}

	return Package{
		Name:       desc.DisplayName(),
		ID:         desc.ID,
		Version:    desc.GetVersion(),
		Type:       desc.GetType(),
		Dir:        dir,
		Size:       size,
		Descriptor: desc,
	}, true
}

func versionLess(a, b string) bool {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return va.LessThan(vb)
}

// Uninstall removes root/name. A nil confirmer means the removal was
// already approved.
func Uninstall(root, name string, confirmer Confirmer) error {
	if !model.ValidPackageName(name) {
		return errors.Wrapf(errors.ErrInvalidPackageName, "%q", name)
	}

	dir := filepath.Join(root, name)
	if !fsutil.IsDir(dir) {
		return errors.Wrapf(errors.ErrPackageNotFound, "%s is not installed in %s", name, root)
	}

	if confirmer != nil {
		ok, err := confirmer.Confirm(fmt.Sprintf("Uninstall %s?", name))
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(errors.ErrCancelled, "uninstall of %s", name)
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return errors.IOError(err, "failed to remove %s", dir)
	}
	logger.Debug("Removed package directory", logger.Fields{"dir": dir})
	return nil
}
