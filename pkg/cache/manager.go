package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/fsutil"
	"github.com/glorpus-work/pack/pkg/model"
	"github.com/zeebo/blake3"
)

// DefaultManager keeps one JSON file per package spec. Freshness is decided
// by the file's modification time.
type DefaultManager struct {
	directory string
	ttl       time.Duration
	enabled   bool
}

// NewManager creates a cache manager rooted at directory.
func NewManager(directory string, ttl time.Duration, enabled bool) *DefaultManager {
	return &DefaultManager{
		directory: directory,
		ttl:       ttl,
		enabled:   enabled,
	}
}

// NewDefaultManager creates a cache manager in the per-user cache directory.
func NewDefaultManager(ttl time.Duration, enabled bool) (*DefaultManager, error) {
	cacheDir, err := fsutil.GetCacheDir()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get user cache directory")
	}
	return NewManager(cacheDir, ttl, enabled), nil
}

// Key returns the cache key for spec: the hex blake3 digest of
// "<id>_<version or latest>".
func Key(spec model.PackageSpec) string {
	sum := blake3.Sum256([]byte(spec.ID + "_" + spec.VersionOrLatest()))
	return hex.EncodeToString(sum[:])
}

func (cm *DefaultManager) entryPath(spec model.PackageSpec) string {
	return filepath.Join(cm.directory, Key(spec)+EntryExt)
}

// Read returns the cached payload for spec if a fresh, well-formed entry
// exists. Anything else is a miss.
func (cm *DefaultManager) Read(spec model.PackageSpec, opts Options) ([]byte, bool) {
	if !cm.enabled || opts.Bypass || cm.directory == "" {
		return nil, false
	}

	path := cm.entryPath(spec)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) >= cm.ttl {
		logger.Debug("Cache entry is stale", logger.Fields{"spec": spec.String(), "age": time.Since(info.ModTime()).String()})
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("Cannot read cache entry", logger.Fields{"path": path, "error": err.Error()})
		return nil, false
	}
	if !json.Valid(data) {
		logger.Warn("Ignoring malformed cache entry", logger.Fields{"path": path})
		return nil, false
	}
	return data, true
}

// Write stores payload for spec. It is a no-op when the cache is disabled or
// bypassed.
func (cm *DefaultManager) Write(spec model.PackageSpec, payload []byte, opts Options) error {
	if !cm.enabled || opts.Bypass {
		return nil
	}
	if cm.directory == "" {
		return errors.ErrCacheDirectory
	}
	if err := os.MkdirAll(cm.directory, CacheDirPerm); err != nil {
		return errors.IOError(err, "failed to create cache directory %s", cm.directory)
	}
	if err := fsutil.WriteFileAtomic(cm.entryPath(spec), payload, fsutil.FileModeSecure); err != nil {
		return errors.IOError(err, "failed to write cache entry")
	}
	return nil
}

// Clear removes every cache entry and returns how many were removed. A
// missing directory holds no entries.
func (cm *DefaultManager) Clear() (int, error) {
	entries, err := cm.entries()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errors.ErrCacheClear, err)
	}

	removed := 0
	for _, path := range entries {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("%w: %w", errors.ErrCacheClear, errors.IOError(err, "remove %s", path))
		}
		removed++
	}
	return removed, nil
}

// GetInfo returns the entry count and total size of the cache.
func (cm *DefaultManager) GetInfo() (*Info, error) {
	info := &Info{Directory: cm.directory}

	entries, err := cm.entries()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCacheInfo, err)
	}
	for _, path := range entries {
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		info.Entries++
		info.TotalSize += stat.Size()
	}
	return info, nil
}

// GetDirectory returns the cache directory path.
func (cm *DefaultManager) GetDirectory() string {
	return cm.directory
}

func (cm *DefaultManager) entries() ([]string, error) {
	if cm.directory == "" {
		return nil, errors.ErrCacheDirectory
	}
	dirEntries, err := os.ReadDir(cm.directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.IOError(err, "read cache directory %s", cm.directory)
	}

	var paths []string
	for _, entry := range dirEntries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), EntryExt) {
			paths = append(paths, filepath.Join(cm.directory, entry.Name()))
		}
	}
	return paths, nil
}
