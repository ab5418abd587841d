// Package installer fetches package descriptors and writes them into the
// install directory.
package installer

import (
	"context"
	"encoding/json"
	"os"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/cache"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/fsutil"
	"github.com/glorpus-work/pack/pkg/model"
	"github.com/glorpus-work/pack/pkg/project"
	"github.com/glorpus-work/pack/pkg/registry"
)

// Installer ties the cache, the registry client and the materializer
// together.
type Installer struct {
	Registry registry.Client
	Cache    cache.Manager
	Paths    *PathResolver
	Hooks    Hooks
}

// New creates an Installer.
func New(client registry.Client, cacheManager cache.Manager, paths *PathResolver) *Installer {
	return &Installer{Registry: client, Cache: cacheManager, Paths: paths}
}

// Install fetches req.Spec and installs it. An existing install directory is
// left alone unless req.Force is set; that case is reported through
// AlreadyInstalled rather than an error. When the files were installed but
// the package.json update failed, both the result and the error are
// returned.
func (i *Installer) Install(ctx context.Context, req InstallRequest) (*InstallResult, error) {
	i.Hooks.emit(PhaseResolving, req.Spec.ID, req.Spec.String())

	resp, fromCache, err := i.Fetch(ctx, req.Spec, req.NoCache, req.Force)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, registry.ReplyError("install", resp.Error)
	}
	if resp.Pack == nil {
		return nil, errors.Wrapf(errors.ErrValidation, "registry reply for %s has no package", req.Spec)
	}
	desc := resp.Pack
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	result := &InstallResult{
		Descriptor:  desc,
		InstallInfo: resp.InstallInfo,
		Dir:         i.Paths.PackageDir(req.Global, desc),
		FromCache:   fromCache,
	}

	if fsutil.Exists(result.Dir) {
		if !req.Force {
			result.Outcome = AlreadyInstalled
			return result, nil
		}
		logger.Debug("Removing previous install", logger.Fields{"dir": result.Dir})
		if err := os.RemoveAll(result.Dir); err != nil {
			return nil, errors.IOError(err, "failed to remove %s", result.Dir)
		}
	}

	if err := fsutil.EnsureDir(result.Dir); err != nil {
		return nil, errors.IOError(err, "failed to create %s", result.Dir)
	}

	i.Hooks.emit(PhaseInstalling, desc.ID, result.Dir)
	materializer := &Materializer{Hooks: i.Hooks}
	files, err := materializer.Materialize(ctx, result.Dir, desc)
	if err != nil {
		return nil, err
	}
	result.Files = files
	result.Outcome = Installed

	if req.Save != SaveNone {
		i.Hooks.emit(PhaseSaving, desc.ID, string(req.Save.Section()))
		if err := i.saveDependency(req.Save.Section(), desc); err != nil {
			return result, err
		}
		result.SavedTo = req.Save.Section()
	}

	i.Hooks.emit(PhaseDone, desc.ID, result.Dir)
	return result, nil
}

// Fetch returns the registry reply for spec, from the cache when a fresh
// entry exists. noCache and force both skip the cache read; only noCache
// prevents the reply from being cached.
func (i *Installer) Fetch(ctx context.Context, spec model.PackageSpec, noCache, force bool) (*model.RegistryResponse, bool, error) {
	if i.Cache != nil {
		if data, ok := i.Cache.Read(spec, cache.Options{Bypass: noCache || force}); ok {
			var resp model.RegistryResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				i.Hooks.emit(PhaseCache, spec.ID, "loaded from cache")
				return &resp, true, nil
			}
			logger.Debug("Ignoring undecodable cache entry", logger.Fields{"spec": spec.String()})
		}
	}

	i.Hooks.emit(PhaseFetching, spec.ID, spec.String())
	resp, err := i.Registry.FetchPackage(ctx, spec, noCache)
	if err != nil {
		return nil, false, err
	}

	if i.Cache != nil && resp.Success {
		payload, err := json.Marshal(resp)
		if err == nil {
			err = i.Cache.Write(spec, payload, cache.Options{Bypass: noCache})
		}
		if err != nil {
			logger.Warn("Failed to cache registry reply", logger.Fields{"spec": spec.String(), "error": err.Error()})
		}
	}
	return resp, false, nil
}

func (i *Installer) saveDependency(section project.Section, desc *model.Descriptor) error {
	manifest, err := project.Load(i.Paths.WorkDir)
	if err != nil {
		return err
	}
	if err := manifest.SetDependency(section, desc.DisplayName(), "^"+desc.GetVersion()); err != nil {
		return err
	}
	return manifest.Save()
}
