package cache

import "github.com/glorpus-work/pack/pkg/model"

// Manager stores raw registry replies keyed by package spec.
type Manager interface {
	Read(spec model.PackageSpec, opts Options) ([]byte, bool)
	Write(spec model.PackageSpec, payload []byte, opts Options) error
	Clear() (int, error)
	GetInfo() (*Info, error)
	GetDirectory() string
}

// Options control a single cache access.
type Options struct {
	// Bypass skips the cache entirely, as with --no-cache or --force.
	Bypass bool
}

// Info describes the cache contents.
type Info struct {
	Directory string `json:"directory" yaml:"directory"`
	Entries   int    `json:"entries" yaml:"entries"`
	TotalSize int64  `json:"total_size" yaml:"total_size"`
}
