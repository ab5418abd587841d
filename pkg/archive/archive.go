// Package archive builds the gzip tarballs uploaded by publish.
package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/mholt/archives"
)

// TempPattern is the name pattern of archives created by CreateTemp.
const TempPattern = "pack-*.tar.gz"

// Manager creates and inspects package archives.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Create writes a gzip-compressed tar of sourceDir to archivePath and returns
// the number of files added. Entry names are relative to sourceDir. Any path
// with a segment starting with "." is left out.
func (am *Manager) Create(ctx context.Context, sourceDir, archivePath string) (int, error) {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return 0, fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}
	info, err := os.Stat(absolutePath)
	if err != nil {
		return 0, errors.IOError(err, "cannot read source directory %s", sourceDir)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s is not a directory", errors.ErrValidation, sourceDir)
	}

	diskFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): "",
	})
	if err != nil {
		return 0, errors.IOError(err, "failed to read files from disk")
	}
	files := visibleFiles(diskFiles)

	file, err := os.Create(archivePath)
	if err != nil {
		return 0, errors.IOError(err, "failed to create output file %s", archivePath)
	}
	defer func() {
		_ = file.Sync()
		_ = file.Close()
	}()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}
	if err := format.Archive(ctx, file, files); err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}
	return len(files), nil
}

// CreateTemp archives sourceDir into a new temporary file. The returned
// cleanup removes that file and must be called whatever happens next.
func (am *Manager) CreateTemp(ctx context.Context, sourceDir string) (path string, entries int, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", TempPattern)
	if err != nil {
		return "", 0, func() {}, errors.IOError(err, "failed to create temporary archive")
	}
	path = tmp.Name()
	_ = tmp.Close()
	cleanup = func() { _ = os.Remove(path) }

	entries, err = am.Create(ctx, sourceDir, path)
	if err != nil {
		cleanup()
		return "", 0, func() {}, err
	}
	return path, entries, cleanup, nil
}

// List returns the file names stored in archivePath, sorted.
func (am *Manager) List(ctx context.Context, archivePath string) ([]string, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	var names []string
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", archivePath, err)
	}
	sort.Strings(names)
	return names, nil
}

func visibleFiles(files []archives.FileInfo) []archives.FileInfo {
	out := files[:0]
	for _, f := range files {
		if !f.Mode().IsRegular() || isHidden(f.NameInArchive) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// isHidden reports whether any segment of name starts with a dot.
func isHidden(name string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(name), "/") {
		if strings.HasPrefix(segment, ".") && segment != "." {
			return true
		}
	}
	return false
}
