package cli

import (
	"fmt"
	"io"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/installer"
	"github.com/glorpus-work/pack/pkg/model"
	"github.com/glorpus-work/pack/pkg/project"
	"github.com/spf13/cobra"
)

type installOptions struct {
	version string
	global  bool
	local   bool
	save    bool
	saveDev bool
	force   bool
	noCache bool
}

// NewInstallCmd creates the install command.
func NewInstallCmd(env *Env) *cobra.Command {
	var opts installOptions

	cmd := &cobra.Command{
		Use:   "install PACKAGE[@VERSION]",
		Short: "Install a package",
		Long: `Install a package from the registry.

Packages go to node_modules when the current directory holds a package.json,
otherwise to the configured default install path. Use --global to install
into the global install path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, env, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.version, "version", "v", "", "Package version (PACKAGE is then used verbatim as the id)")
	cmd.Flags().BoolVarP(&opts.global, "global", "g", false, "Install into the global install path")
	cmd.Flags().BoolVar(&opts.local, "local", false, "Install into the project (default)")
	cmd.Flags().BoolVarP(&opts.save, "save", "S", false, "Save to dependencies in package.json")
	cmd.Flags().BoolVarP(&opts.saveDev, "save-dev", "D", false, "Save to devDependencies in package.json")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Reinstall even if already installed")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Bypass the local and registry caches")
	cmd.MarkFlagsMutuallyExclusive("global", "local")
	cmd.MarkFlagsMutuallyExclusive("save", "save-dev")

	return cmd
}

// installSummary is the structured form of an install result.
type installSummary struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Version     string             `json:"version" yaml:"version"`
	Type        string             `json:"type" yaml:"type"`
	Outcome     string             `json:"outcome" yaml:"outcome"`
	Location    string             `json:"location" yaml:"location"`
	Files       int                `json:"files" yaml:"files"`
	FromCache   bool               `json:"from_cache" yaml:"from_cache"`
	SavedTo     string             `json:"saved_to,omitempty" yaml:"saved_to,omitempty"`
	InstallInfo *model.InstallInfo `json:"install_info,omitempty" yaml:"install_info,omitempty"`
}

func runInstall(cmd *cobra.Command, env *Env, token string, opts installOptions) error {
	paths, err := env.pathResolver()
	if err != nil {
		return err
	}
	cacheManager, err := env.cacheManager()
	if err != nil {
		return err
	}

	inst := installer.New(env.registryClient(), cacheManager, paths)
	inst.Hooks = installer.Hooks{OnEvent: func(e installer.Event) {
		logger.Debug(e.Msg, logger.Fields{"phase": e.Phase, "package": e.ID})
	}}

	save := installer.SaveNone
	switch {
	case opts.save:
		save = installer.SaveProd
	case opts.saveDev:
		save = installer.SaveDev
	}

	result, err := inst.Install(cmd.Context(), installer.InstallRequest{
		Spec:    model.ParseSpec(token, opts.version),
		Global:  opts.global,
		Force:   opts.force,
		NoCache: opts.noCache,
		Save:    save,
	})
	if result == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format := env.structuredFormat(false); format != "" {
		if werr := writeStructured(out, format, summarizeInstall(result)); werr != nil {
			return werr
		}
		return err
	}

	printInstallResult(out, result)
	return err
}

func summarizeInstall(r *installer.InstallResult) installSummary {
	return installSummary{
		ID:          r.Descriptor.ID,
		Name:        r.Descriptor.DisplayName(),
		Version:     r.Descriptor.GetVersion(),
		Type:        r.Descriptor.GetType(),
		Outcome:     r.Outcome.String(),
		Location:    r.Dir,
		Files:       r.Files,
		FromCache:   r.FromCache,
		SavedTo:     string(r.SavedTo),
		InstallInfo: r.InstallInfo,
	}
}

func printInstallResult(w io.Writer, r *installer.InstallResult) {
	desc := r.Descriptor
	if r.FromCache {
		_, _ = fmt.Fprintln(w, "Loaded from cache")
	}
	if r.Outcome == installer.AlreadyInstalled {
		_, _ = fmt.Fprintf(w, "Package %s is already installed at %s. Use --force to reinstall.\n", desc.DisplayName(), r.Dir)
		return
	}

	if r.SavedTo != "" {
		_, _ = fmt.Fprintf(w, "Saved to %s in %s\n", r.SavedTo, project.FileName)
	}
	_, _ = fmt.Fprintf(w, "\nSuccessfully installed %s v%s\n\n", desc.DisplayName(), desc.GetVersion())

	tw := newTabWriter(w)
	_, _ = fmt.Fprintf(tw, "Name:\t%s\n", desc.DisplayName())
	_, _ = fmt.Fprintf(tw, "ID:\t%s\n", desc.ID)
	_, _ = fmt.Fprintf(tw, "Version:\t%s\n", desc.GetVersion())
	_, _ = fmt.Fprintf(tw, "Type:\t%s\n", desc.GetType())
	_, _ = fmt.Fprintf(tw, "Files:\t%d\n", len(desc.Files))
	_, _ = fmt.Fprintf(tw, "Public:\t%s\n", yesNo(desc.Public()))
	_, _ = fmt.Fprintf(tw, "WASM:\t%s\n", yesNo(desc.WasmURL != ""))
	_, _ = fmt.Fprintf(tw, "Location:\t%s\n", r.Dir)
	_ = tw.Flush()

	info := r.InstallInfo
	if info == nil {
		return
	}
	methods := [][2]string{
		{"Pack CLI:", info.PackCLI},
		{"npm:", info.NPM},
		{"yarn:", info.Yarn},
		{"Direct URL:", info.DirectURL},
	}
	_, _ = fmt.Fprintln(w, "\nInstallation Methods:")
	tw = newTabWriter(w)
	for _, m := range methods {
		if m[1] != "" {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\n", m[0], m[1])
		}
	}
	_ = tw.Flush()
}
