// Package model defines the records exchanged with the registry and kept on
// disk: package specs, descriptors, file contents and registry replies.
package model

import "strings"

// LatestVersion is the cache key suffix used when no version was requested.
const LatestVersion = "latest"

// PackageSpec identifies the package a user asked for.
type PackageSpec struct {
	ID      string
	Version string // empty means the registry default
}

// ParseSpec builds a PackageSpec from a command-line token such as
// "abc123@1.2.0". An explicit version flag takes precedence; in that case the
// token is used verbatim as the id.
func ParseSpec(token, versionFlag string) PackageSpec {
	if versionFlag != "" {
		return PackageSpec{ID: token, Version: versionFlag}
	}
	id, version, _ := strings.Cut(token, "@")
	return PackageSpec{ID: id, Version: version}
}

// VersionOrLatest returns the requested version or LatestVersion.
func (s PackageSpec) VersionOrLatest() string {
	if s.Version == "" {
		return LatestVersion
	}
	return s.Version
}

func (s PackageSpec) String() string {
	if s.Version == "" {
		return s.ID
	}
	return s.ID + "@" + s.Version
}
