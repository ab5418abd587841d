package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the pack command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	return newRootCmd(NewEnv())
}

func newRootCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "PackCDN package manager",
		Long: `pack installs, searches and publishes packages on the PackCDN registry.

Packages are installed into node_modules inside a project, into the configured
default install path, or globally with --global.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return env.Setup()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&env.ConfigPath, "config", "", "config file path (default: $PACK_HOME/config.json)")
	cmd.PersistentFlags().BoolVar(&env.Verbose, "verbose", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&env.OutputFormat, "output", "o", OutputText, "output format (text, json, yaml)")

	cmd.AddCommand(
		NewInstallCmd(env),
		NewSearchCmd(env),
		NewInfoCmd(env),
		NewListCmd(env),
		NewUninstallCmd(env),
		NewPublishCmd(env),
		NewConfigCmd(env),
		NewCacheCmd(env),
		NewVersionCmd(env),
	)

	return cmd
}
