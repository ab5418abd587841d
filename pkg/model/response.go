package model

import "github.com/glorpus-work/pack/pkg/errors"

// RegistryResponse is the reply to a package fetch.
type RegistryResponse struct {
	Success     bool                  `json:"success"`
	Pack        *Descriptor           `json:"pack,omitempty"`
	InstallInfo *InstallInfo          `json:"install_info,omitempty"`
	Error       *errors.RegistryError `json:"error,omitempty"`
}

// InstallInfo lists the ways a package can be consumed.
type InstallInfo struct {
	PackCLI   string `json:"pack_cli,omitempty"`
	NPM       string `json:"npm,omitempty"`
	Yarn      string `json:"yarn,omitempty"`
	DirectURL string `json:"direct_url,omitempty"`
}

// SearchResult is the reply to a search.
type SearchResult struct {
	Packs []Descriptor `json:"packs"`
}

// PublishResult is the reply to a publish upload.
type PublishResult struct {
	Success bool                  `json:"success"`
	ID      string                `json:"id,omitempty"`
	Error   *errors.RegistryError `json:"error,omitempty"`
}
