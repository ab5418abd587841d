package cli

import (
	"fmt"
	"io"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/auth"
	"github.com/glorpus-work/pack/pkg/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and modify pack configuration settings",
	}

	cmd.AddCommand(
		newConfigSetCmd(env),
		newConfigGetCmd(env),
		newConfigListCmd(env),
	)

	return cmd
}

// Number of arguments expected by the set command.
const setCommandArgs = 2

func newConfigSetCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration key. Values "true" and "false" become booleans and
digit-only values become integers.`,
		Args: cobra.ExactArgs(setCommandArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), env.Config, args[0], args[1])
		},
	}

	return cmd
}

func newConfigGetCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [KEY]",
		Short: "Get configuration values",
		Long:  "Print one configuration value, or all of them when KEY is omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runConfigList(cmd.OutOrStdout(), env)
			}
			return runConfigGet(cmd.OutOrStdout(), env.Config, args[0])
		},
	}

	return cmd
}

func newConfigListCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigList(cmd.OutOrStdout(), env)
		},
	}

	return cmd
}

func runConfigSet(w io.Writer, cfg *config.Config, key, raw string) error {
	value, err := cfg.Set(key, raw)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Debug("Configuration updated", logger.Fields{"key": key, "path": cfg.Path()})
	_, _ = fmt.Fprintf(w, "Set %s = %s\n", key, config.FormatValue(value))
	return nil
}

func runConfigGet(w io.Writer, cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "%s: %s\n", key, config.FormatValue(value))
	return nil
}

func runConfigList(w io.Writer, env *Env) error {
	cfg := env.Config

	if format := env.structuredFormat(false); format != "" {
		values := cfg.Values()
		for key, value := range values {
			values[key] = maskSecret(key, value)
		}
		return writeStructured(w, format, values)
	}

	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "KEY\tVALUE")
	_, _ = fmt.Fprintln(tw, "---\t-----")
	for _, key := range cfg.Keys() {
		value, _ := cfg.Get(key)
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", key, config.FormatValue(maskSecret(key, value)))
	}
	return tw.Flush()
}

// maskSecret hides a configured API key; other values pass through.
func maskSecret(key string, value any) any {
	if token, ok := value.(string); ok && key == config.KeyAPIKey && token != "" {
		return auth.BearerAuth{Token: token}.Masked()
	}
	return value
}
