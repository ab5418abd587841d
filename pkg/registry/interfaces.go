// Package registry talks to the remote package registry over HTTP.
//
//go:generate mockgen -destination=./mocks/registry.go -package=mocks . Client
package registry

import (
	"context"

	"github.com/glorpus-work/pack/pkg/auth"
	"github.com/glorpus-work/pack/pkg/model"
)

// Client is the registry API used by install, search, info and publish.
// Every failure is returned as *errors.NetworkError.
type Client interface {
	// FetchPackage retrieves the descriptor for spec. bypassCache asks the
	// registry to skip its own caching layer.
	FetchPackage(ctx context.Context, spec model.PackageSpec, bypassCache bool) (*model.RegistryResponse, error)

	// Search lists packages matching query.
	Search(ctx context.Context, query SearchQuery) (*model.SearchResult, error)

	// Publish uploads a package archive.
	Publish(ctx context.Context, req PublishRequest, authenticator auth.Authenticator) (*model.PublishResult, error)
}

// DefaultSearchLimit is the result limit used when none is given.
const DefaultSearchLimit = 20

// SearchQuery holds the search filters. Empty fields are not sent.
type SearchQuery struct {
	Query string
	Type  string
	Limit int
}

// PublishRequest describes one upload.
type PublishRequest struct {
	ArchivePath string
	Name        string
	Version     string
	Description string
	Public      bool
	Type        string
}
