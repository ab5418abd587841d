package cache

import "github.com/glorpus-work/pack/pkg/fsutil"

// CacheDirPerm is the permission mode for the cache directory (rwx------).
const CacheDirPerm = fsutil.DirModePrivate

// EntryExt is the file extension of cache entries.
const EntryExt = ".json"
