package cli

import (
	"fmt"

	"github.com/glorpus-work/pack/pkg/archive"
	"github.com/glorpus-work/pack/pkg/publish"
	"github.com/spf13/cobra"
)

type publishOptions struct {
	key         string
	public      bool
	private     bool
	packageType string
}

// NewPublishCmd creates the publish command.
func NewPublishCmd(env *Env) *cobra.Command {
	var opts publishOptions

	cmd := &cobra.Command{
		Use:   "publish [PATH]",
		Short: "Publish a package",
		Long: `Archive the package in PATH (default: current directory) and upload it
to the registry. PATH must contain a package.json with a name and a version.
Hidden files are not included.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runPublish(cmd, env, dir, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.key, "key", "k", "", "API key (defaults to the configured api_key)")
	cmd.Flags().BoolVar(&opts.public, "public", true, "Publish as a public package")
	cmd.Flags().BoolVar(&opts.private, "private", false, "Publish as a private package")
	cmd.Flags().StringVarP(&opts.packageType, "type", "t", "", "Package type (defaults to package.json type or basic)")
	cmd.MarkFlagsMutuallyExclusive("public", "private")

	return cmd
}

func runPublish(cmd *cobra.Command, env *Env, dir string, opts publishOptions) error {
	authenticator, err := env.Config.Authenticator(opts.key)
	if err != nil {
		return err
	}

	publisher := publish.NewPublisher(env.registryClient(), archive.NewManager(), env.Config.Registry())
	result, err := publisher.Publish(cmd.Context(), publish.Request{
		Dir:           dir,
		Authenticator: authenticator,
		Public:        opts.public && !opts.private,
		Type:          opts.packageType,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format := env.structuredFormat(false); format != "" {
		return writeStructured(out, format, result)
	}

	_, _ = fmt.Fprintf(out, "Successfully published %s v%s\n", result.Name, result.Version)
	_, _ = fmt.Fprintf(out, "\nPackage URL: %s\n", result.URL)
	return nil
}
