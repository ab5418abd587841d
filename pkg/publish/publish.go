// Package publish validates a local package, archives it and uploads it to
// the registry.
package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/auth"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/model"
	"github.com/glorpus-work/pack/pkg/project"
	"github.com/glorpus-work/pack/pkg/registry"
	"github.com/hashicorp/go-version"
)

// Archiver builds the upload archive.
type Archiver interface {
	CreateTemp(ctx context.Context, sourceDir string) (path string, entries int, cleanup func(), err error)
}

// Publisher runs the publish pipeline.
type Publisher struct {
	Registry    registry.Client
	Archiver    Archiver
	RegistryURL string
}

// NewPublisher creates a Publisher. registryURL is used to build the package
// link in the result.
func NewPublisher(client registry.Client, archiver Archiver, registryURL string) *Publisher {
	return &Publisher{Registry: client, Archiver: archiver, RegistryURL: strings.TrimRight(registryURL, "/")}
}

// Request describes one publish.
type Request struct {
	Dir           string
	Authenticator auth.Authenticator
	Public        bool
	// Type overrides the package.json "type" field when set.
	Type string
}

// Result describes a successful publish.
type Result struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	ID      string `json:"id" yaml:"id"`
	URL     string `json:"url" yaml:"url"`
	Entries int    `json:"entries" yaml:"entries"`
}

// Publish validates req.Dir, uploads it and returns the registry link. No
// request is made unless credentials are present and package.json carries a
// name and a valid version. The temporary archive is always removed.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Result, error) {
	if req.Authenticator == nil {
		return nil, errors.ErrMissingAPIKey
	}

	manifest, err := project.Load(req.Dir)
	if err != nil {
		return nil, err
	}
	if err := Validate(manifest); err != nil {
		return nil, err
	}

	archivePath, entries, cleanup, err := p.Archiver.CreateTemp(ctx, req.Dir)
	defer cleanup()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create package archive")
	}
	logger.Debug("Created package archive", logger.Fields{"path": archivePath, "entries": entries})

	packageType := req.Type
	if packageType == "" {
		packageType = manifest.Type()
	}
	if packageType == "" {
		packageType = model.DefaultPackageType
	}

	reply, err := p.Registry.Publish(ctx, registry.PublishRequest{
		ArchivePath: archivePath,
		Name:        manifest.Name(),
		Version:     manifest.Version(),
		Description: manifest.Description(),
		Public:      req.Public,
		Type:        packageType,
	}, req.Authenticator)
	if err != nil {
		return nil, err
	}
	if !reply.Success {
		return nil, registry.ReplyError("publish", reply.Error)
	}

	return &Result{
		Name:    manifest.Name(),
		Version: manifest.Version(),
		ID:      reply.ID,
		URL:     fmt.Sprintf("%s/pack/%s", p.RegistryURL, reply.ID),
		Entries: entries,
	}, nil
}

// Validate checks that the manifest can be published.
func Validate(manifest *project.Manifest) error {
	var missing []string
	if manifest.Name() == "" {
		missing = append(missing, "name")
	}
	if manifest.Version() == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s must have %s", errors.ErrValidation, project.FileName, strings.Join(missing, " and "))
	}
	if _, err := version.NewVersion(manifest.Version()); err != nil {
		return fmt.Errorf("%w: invalid version %q: %w", errors.ErrValidation, manifest.Version(), err)
	}
	return nil
}
