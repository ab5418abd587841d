package installer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/fsutil"
	"github.com/glorpus-work/pack/pkg/model"
)

// Materializer writes descriptor contents to disk.
type Materializer struct {
	Hooks Hooks
}

// Materialize writes every file of d below dir in path order, then the
// manifest. If any file fails the manifest is not written, so the directory
// does not count as installed. It returns the number of files written.
func (m *Materializer) Materialize(ctx context.Context, dir string, d *model.Descriptor) (int, error) {
	paths := d.SortedFiles()
	for n, rel := range paths {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		target, ok := fsutil.ResolveWithin(dir, rel)
		if !ok {
			return n, &errors.PathTraversalError{Path: rel}
		}

		data, err := d.Files[rel].Bytes()
		if err != nil {
			return n, errors.Wrapf(err, "failed to decode %s", rel)
		}

		if err := fsutil.EnsureFileDir(target); err != nil {
			return n, errors.IOError(err, "failed to create directory for %s", rel)
		}
		if err := os.WriteFile(target, data, fsutil.FileModeDefault); err != nil {
			return n, errors.IOError(err, "failed to write %s", rel)
		}
		m.Hooks.emit(PhaseWriting, d.ID, rel)
	}

	if err := WriteManifest(dir, d); err != nil {
		return len(paths), err
	}
	return len(paths), nil
}

// WriteManifest stores d as the indented JSON manifest in dir.
func WriteManifest(dir string, d *model.Descriptor) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode manifest for %s", d.ID)
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, model.ManifestFile), data, fsutil.FileModeDefault); err != nil {
		return errors.IOError(err, "failed to write manifest")
	}
	return nil
}

// ReadManifest loads the manifest stored in dir.
func ReadManifest(dir string) (*model.Descriptor, error) {
	data, err := os.ReadFile(filepath.Join(dir, model.ManifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "no manifest in %s", dir)
		}
		return nil, errors.IOError(err, "failed to read manifest in %s", dir)
	}
	var d model.Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrapf(errors.ErrValidation, "invalid manifest in %s: %v", dir, err)
	}
	return &d, nil
}
