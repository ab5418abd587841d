package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/glorpus-work/pack/pkg/model"
	"github.com/glorpus-work/pack/pkg/registry"
	"github.com/spf13/cobra"
)

// NewInfoCmd creates the info command.
func NewInfoCmd(env *Env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info PACKAGE",
		Short: "Show package details",
		Long:  "Show the metadata, links and file tree of a package in the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, env, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}

func runInfo(cmd *cobra.Command, env *Env, id string, asJSON bool) error {
	client := env.registryClient()

	resp, err := client.FetchPackage(cmd.Context(), model.PackageSpec{ID: id}, false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format := env.structuredFormat(asJSON); format != "" {
		return writeStructured(out, format, resp)
	}
	if !resp.Success || resp.Pack == nil {
		return registry.ReplyError("info", resp.Error)
	}

	printPackageInfo(out, client.BaseURL(), resp.Pack)
	return nil
}

func printPackageInfo(w io.Writer, registryURL string, pack *model.Descriptor) {
	_, _ = fmt.Fprintf(w, "%s\n", pack.DisplayName())
	_, _ = fmt.Fprintf(w, "ID: %s\n\n", pack.ID)

	version := pack.Version
	if version == "" {
		version = model.LatestVersion
	}
	created := pack.CreatedDate()
	if created == "" {
		created = "Unknown"
	}

	tw := newTabWriter(w)
	_, _ = fmt.Fprintf(tw, "Version\t%s\n", version)
	_, _ = fmt.Fprintf(tw, "Type\t%s\n", pack.GetType())
	_, _ = fmt.Fprintf(tw, "Public\t%s\n", yesNo(pack.Public()))
	_, _ = fmt.Fprintf(tw, "Files\t%d\n", len(pack.Files))
	_, _ = fmt.Fprintf(tw, "WASM\t%s\n", yesNo(pack.WasmURL != ""))
	_, _ = fmt.Fprintf(tw, "Created\t%s\n", created)
	_ = tw.Flush()

	if description, ok := pack.PackJSON["description"].(string); ok && description != "" {
		_, _ = fmt.Fprintf(w, "\nDescription:\n  %s\n", description)
	}

	_, _ = fmt.Fprintln(w, "\nLinks:")
	_, _ = fmt.Fprintf(w, "  CDN:  %s/cdn/%s\n", registryURL, pack.URLID)
	_, _ = fmt.Fprintf(w, "  Info: %s/pack/%s\n", registryURL, pack.URLID)
	if pack.WasmURL != "" {
		_, _ = fmt.Fprintf(w, "  WASM: %s/wasm/%s\n", registryURL, pack.URLID)
	}

	if len(pack.Files) > 0 {
		_, _ = fmt.Fprintln(w, "\nFiles:")
		for _, line := range fileTree(pack.SortedFiles()) {
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

// fileTree groups paths by their first segment and renders a shortened
// two-level tree.
func fileTree(paths []string) []string {
	var (
		rootFiles []string
		dirs      []string
		byDir     = map[string][]string{}
	)
	for _, p := range paths {
		dir, rest, nested := strings.Cut(p, "/")
		if !nested {
			rootFiles = append(rootFiles, p)
			continue
		}
		if _, seen := byDir[dir]; !seen {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], rest)
	}

	lines := []string{"  ."}
	lines = appendLimited(lines, "  ├── ", rootFiles, MaxRootFiles)
	for _, dir := range dirs {
		lines = append(lines, "  ├── "+dir+"/")
		lines = appendLimited(lines, "  │   ├── ", byDir[dir], MaxDirFiles)
	}
	return lines
}

func appendLimited(lines []string, prefix string, names []string, limit int) []string {
	for i, name := range names {
		if i == limit {
			return append(lines, fmt.Sprintf("%s... and %d more files", prefix, len(names)-limit))
		}
		lines = append(lines, prefix+name)
	}
	return lines
}
