package model

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glorpus-work/pack/pkg/errors"
)

// ManifestFile is the name of the descriptor copy kept in every install
// directory.
const ManifestFile = "pack-info.json"

// Descriptor defaults.
const (
	DefaultVersion     = "1.0.0"
	DefaultPackageType = "basic"
)

// Descriptor is the registry's record for a package. The same type is used
// for registry replies, cache payloads and the pack-info.json manifest. Keys
// this client does not know about are kept in Extra and written back out.
type Descriptor struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name,omitempty"`
	Version     string                 `json:"version,omitempty"`
	PackageType string                 `json:"package_type,omitempty"`
	IsPublic    *bool                  `json:"is_public,omitempty"`
	WasmURL     string                 `json:"wasm_url,omitempty"`
	HasWasm     bool                   `json:"has_wasm,omitempty"`
	URLID       string                 `json:"url_id,omitempty"`
	Description string                 `json:"description,omitempty"`
	Files       map[string]FileContent `json:"files,omitempty"`
	CreatedAt   string                 `json:"created_at,omitempty"`
	PackJSON    map[string]any         `json:"pack_json,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type descriptorAlias Descriptor

// UnmarshalJSON implements json.Unmarshaler.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var alias descriptorAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range knownDescriptorKeys {
		delete(all, key)
	}
	if len(all) == 0 {
		all = nil
	}
	*d = Descriptor(alias)
	d.Extra = all
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(descriptorAlias(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return known, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for key, value := range d.Extra {
		if _, ok := merged[key]; !ok {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

var knownDescriptorKeys = []string{
	"id", "name", "version", "package_type", "is_public", "wasm_url", "has_wasm",
	"url_id", "description", "files", "created_at", "pack_json",
}

// Validate checks the fields every descriptor must carry. The display name
// becomes a directory below the install root, so it must be a single path
// segment.
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return errors.ErrDescriptorIDRequired
	}
	if name := d.DisplayName(); !ValidPackageName(name) {
		return errors.Wrapf(errors.ErrInvalidPackageName, "%q", name)
	}
	return nil
}

// ValidPackageName reports whether name can be used as an install directory:
// non-empty, one path segment and neither "." nor "..".
func ValidPackageName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return name == filepath.Base(name) && !strings.ContainsAny(name, `/\`)
}

// DisplayName returns the name used for the install directory.
func (d *Descriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// GetVersion returns the version or DefaultVersion.
func (d *Descriptor) GetVersion() string {
	if d.Version == "" {
		return DefaultVersion
	}
	return d.Version
}

// GetType returns the package type or DefaultPackageType.
func (d *Descriptor) GetType() string {
	if d.PackageType == "" {
		return DefaultPackageType
	}
	return d.PackageType
}

// Public reports the visibility, defaulting to true.
func (d *Descriptor) Public() bool {
	return d.IsPublic == nil || *d.IsPublic
}

// CreatedDate returns the date part of CreatedAt.
func (d *Descriptor) CreatedDate() string {
	if len(d.CreatedAt) > 10 {
		return d.CreatedAt[:10]
	}
	return d.CreatedAt
}

// SortedFiles returns the file paths in lexical order.
func (d *Descriptor) SortedFiles() []string {
	paths := make([]string, 0, len(d.Files))
	for p := range d.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
