package cli

import (
	"fmt"

	"github.com/glorpus-work/pack/pkg/cache"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the package cache",
		Long:  "Clear or show information about the local registry reply cache",
	}

	cmd.AddCommand(
		newCacheClearCmd(env),
		newCacheInfoCmd(env),
	)

	return cmd
}

func newCacheClearCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the cache",
		Long:  "Remove every cached registry reply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheClear(cmd, env)
		},
	}
}

func newCacheInfoCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display the cache location, entry count and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheInfo(cmd, env)
		},
	}
}

func newCacheOperation(env *Env) (*cache.Operation, error) {
	manager, err := env.cacheManager()
	if err != nil {
		return nil, err
	}
	return cache.NewOperation(manager), nil
}

func runCacheClear(cmd *cobra.Command, env *Env) error {
	op, err := newCacheOperation(env)
	if err != nil {
		return err
	}

	msg, err := op.Clear()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func runCacheInfo(cmd *cobra.Command, env *Env) error {
	op, err := newCacheOperation(env)
	if err != nil {
		return err
	}

	info, summary, err := op.Info()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format := env.structuredFormat(false); format != "" {
		return writeStructured(out, format, info)
	}
	if info.Entries == 0 {
		_, _ = fmt.Fprintln(out, "Cache is empty")
		return nil
	}
	_, _ = fmt.Fprintln(out, summary)
	return nil
}
