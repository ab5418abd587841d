package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/glorpus-work/pack/pkg/installed"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd(env *Env) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long: `List the packages installed in the current install root.

The root is resolved the same way as for install: node_modules in a project,
the default install path otherwise, or the global path with --global.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, env, global)
		},
	}

	cmd.Flags().BoolVarP(&global, "global", "g", false, "List globally installed packages")

	return cmd
}

func runList(cmd *cobra.Command, env *Env, global bool) error {
	paths, err := env.pathResolver()
	if err != nil {
		return err
	}

	packages, err := installed.List(paths.Root(global))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format := env.structuredFormat(false); format != "" {
		return writeStructured(out, format, packages)
	}

	printInstalled(out, packages, global)
	return nil
}

func printInstalled(w io.Writer, packages []installed.Package, global bool) {
	if len(packages) == 0 {
		_, _ = fmt.Fprintln(w, "No packages installed.")
		if !global {
			_, _ = fmt.Fprintln(w, "\nInstall a package with: pack install <package>")
		}
		return
	}

	scope := "Local"
	if global {
		scope = "Global"
	}
	_, _ = fmt.Fprintf(w, "Installed Packages (%s)\n\n", scope)

	var total int64
	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "PACKAGE\tVERSION\tTYPE\tSIZE\tLOCATION")
	for _, p := range packages {
		total += p.Size
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Version, p.Type, humanize.Bytes(uint64(p.Size)), truncate(p.Dir, MaxLocationLength))
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintf(w, "\nTotal: %d packages, %s\n", len(packages), humanize.Bytes(uint64(total)))
}
