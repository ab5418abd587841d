package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/internal/prompt"
	"github.com/glorpus-work/pack/pkg/cache"
	"github.com/glorpus-work/pack/pkg/config"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/fsutil"
	"github.com/glorpus-work/pack/pkg/installed"
	"github.com/glorpus-work/pack/pkg/installer"
	"github.com/glorpus-work/pack/pkg/registry"
	"gopkg.in/yaml.v3"
)

// Env is the state of one invocation: the global flag values and the
// configuration loaded for it. NewRootCmd builds one and hands it to every
// command.
type Env struct {
	ConfigPath   string
	Verbose      bool
	OutputFormat string

	// Config is loaded by Setup before any command runs.
	Config *config.Config
	// NewConfirmer builds the prompt used by uninstall without --yes.
	NewConfirmer func() installed.Confirmer
}

// NewEnv returns an Env that confirms on the terminal.
func NewEnv() *Env {
	return &Env{
		OutputFormat: OutputText,
		NewConfirmer: func() installed.Confirmer { return &prompt.Terminal{} },
	}
}

// Setup validates the global flags, loads the configuration and initializes
// logging. It runs before every command.
func (e *Env) Setup() error {
	format := e.outputFormat()
	switch format {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("%w: unknown output format %q (use text, json or yaml)", errors.ErrValidation, format)
	}

	path := e.ConfigPath
	if path == "" {
		var err error
		if path, err = fsutil.GetConfigPath(); err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	e.Config = cfg

	level := cfg.LogLevel()
	if e.Verbose {
		level = "debug"
	}

	logFormat := logger.FormatText
	if format == OutputJSON {
		logFormat = logger.FormatJSON
	}
	logger.InitLogger(level, logFormat)
	return nil
}

func (e *Env) registryClient() *registry.HTTPClient {
	return registry.NewHTTPClient(e.Config.Registry(), e.Config.HTTPTimeout(), registry.DefaultUserAgent)
}

func (e *Env) cacheManager() (*cache.DefaultManager, error) {
	return cache.NewDefaultManager(e.Config.CacheTTL(), e.Config.CacheEnabled())
}

func (e *Env) pathResolver() (*installer.PathResolver, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.IOError(err, "failed to get working directory")
	}
	return installer.NewPathResolver(workDir, e.Config), nil
}

func (e *Env) outputFormat() string {
	if e.OutputFormat == "" {
		return OutputText
	}
	return strings.ToLower(e.OutputFormat)
}

// structuredFormat returns the format for machine-readable output, or ""
// for text. forceJSON is a command's own --json flag.
func (e *Env) structuredFormat(forceJSON bool) string {
	if forceJSON {
		return OutputJSON
	}
	if f := e.outputFormat(); f != OutputText {
		return f
	}
	return ""
}

// writeStructured renders v as JSON or YAML. YAML goes through the JSON
// encoding first so both formats share the same field names and custom
// marshalers.
func writeStructured(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if format != OutputYAML {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode yaml output: %w", err)
	}
	return enc.Close()
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, TabWidth, ' ', 0)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ReportError prints err together with any hints the registry attached to it.
func ReportError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)

	var netErr *errors.NetworkError
	if errors.As(err, &netErr) {
		if netErr.Registry != nil {
			printList(w, "Suggestions", netErr.Registry.Details.Suggestions)
			printList(w, "Recovery Steps", netErr.Registry.Details.RecoverySteps)
		} else if netErr.Body != "" {
			_, _ = fmt.Fprintf(w, "Response: %s\n", netErr.Body)
		}
	}

	if errors.Is(err, errors.ErrMissingAPIKey) {
		_, _ = fmt.Fprintf(w, "Set one with: pack config set %s YOUR_KEY\n", config.KeyAPIKey)
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "  - %s\n", item)
	}
}
