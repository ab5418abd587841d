package cli

import (
	"fmt"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/installed"
	"github.com/spf13/cobra"
)

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd(env *Env) *cobra.Command {
	var (
		global bool
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "uninstall PACKAGE",
		Short: "Uninstall a package",
		Long: `Remove an installed package directory.

The user is asked to confirm unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd, env, args[0], global, yes)
		},
	}

	cmd.Flags().BoolVarP(&global, "global", "g", false, "Uninstall a globally installed package")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func runUninstall(cmd *cobra.Command, env *Env, name string, global, yes bool) error {
	paths, err := env.pathResolver()
	if err != nil {
		return err
	}

	var confirmer installed.Confirmer
	if !yes {
		confirmer = env.NewConfirmer()
	}

	root := paths.Root(global)
	logger.Debug("Uninstalling package", logger.Fields{"package": name, "root": root})
	if err := installed.Uninstall(root, name, confirmer); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully uninstalled %s\n", name)
	return nil
}
