package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

const (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version information for pack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVersion(cmd, env)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command, env *Env) error {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "PackCDN CLI v%s\n", Version)
	_, _ = fmt.Fprintf(out, "Registry: %s\n", env.Config.Registry())
	_, _ = fmt.Fprintf(out, "Go: %s\n", runtime.Version())
	_, _ = fmt.Fprintf(out, "Build date: %s\n", BuildDate)
	_, _ = fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
	return nil
}
