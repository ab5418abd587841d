package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/glorpus-work/pack/pkg/model"
	"github.com/glorpus-work/pack/pkg/registry"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	packageType string
	limit       int
	json        bool
}

// NewSearchCmd creates the search command.
func NewSearchCmd(env *Env) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search for packages",
		Long: `Search the registry for packages.

Without a query the registry returns popular packages.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runSearch(cmd, env, query, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.packageType, "type", "t", "", "Filter by package type")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", registry.DefaultSearchLimit, "Maximum number of results")
	cmd.Flags().BoolVarP(&opts.json, "json", "j", false, "Output as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, env *Env, query string, opts searchOptions) error {
	result, err := env.registryClient().Search(cmd.Context(), registry.SearchQuery{
		Query: query,
		Type:  opts.packageType,
		Limit: opts.limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format := env.structuredFormat(opts.json); format != "" {
		return writeStructured(out, format, result)
	}

	printSearchResults(out, query, result.Packs, opts.limit)
	return nil
}

func printSearchResults(w io.Writer, query string, packs []model.Descriptor, limit int) {
	if len(packs) == 0 {
		_, _ = fmt.Fprintln(w, "No packages found.")
		return
	}

	shown := packs
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	title := "Search Results"
	if query != "" {
		title += ": " + query
	}
	_, _ = fmt.Fprintf(w, "%s\n\n", title)

	tw := newTabWriter(w)
	_, _ = fmt.Fprintln(tw, "#\tPACKAGE\tVERSION\tTYPE\tWASM\tDESCRIPTION")
	for i := range shown {
		pack := &shown[i]
		version := pack.Version
		if version == "" {
			version = model.LatestVersion
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			strconv.Itoa(i+1),
			pack.DisplayName(),
			version,
			pack.GetType(),
			yesNo(pack.HasWasm || pack.WasmURL != ""),
			truncate(pack.Description, MaxSearchDescriptionLength))
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintf(w, "\nShowing %d of %d results\n", len(shown), len(packs))
}
