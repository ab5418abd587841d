package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/installed"
	"github.com/glorpus-work/pack/pkg/model"
	"github.com/glorpus-work/pack/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type env struct {
	reg       *testutil.Registry
	home      string
	cfgPath   string
	confirmer installed.Confirmer
}

func newEnv(t *testing.T, packs ...model.Descriptor) *env {
	t.Helper()
	reg := testutil.NewRegistry(t, packs...)
	home, cfgPath := testutil.SetupHome(t, reg.URL)
	return &env{reg: reg, home: home, cfgPath: cfgPath}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logger.SetTestOutput(io.Discard)
	t.Cleanup(logger.UnsetTestOutput)

	cliEnv := NewEnv()
	if e.confirmer != nil {
		cliEnv.NewConfirmer = func() installed.Confirmer { return e.confirmer }
	}
	cmd := newRootCmd(cliEnv)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *env) modules() string {
	return filepath.Join(e.home, "modules")
}

func demoPack() model.Descriptor {
	return model.Descriptor{
		ID:          "demo",
		Name:        "demo-pkg",
		Version:     "1.2.0",
		URLID:       "u-demo",
		Description: "A demo package used to check that long descriptions are cut short",
		PackJSON:    map[string]any{"description": "Demo from pack.json"},
		Files: map[string]model.FileContent{
			"index.js":  model.TextContent("console.log('demo')"),
			"lib/a.txt": model.DataURIContent("text/plain", []byte("hello")),
		},
	}
}

type stubConfirmer bool

func (s stubConfirmer) Confirm(string) (bool, error) { return bool(s), nil }

func TestInstall(t *testing.T) {
	e := newEnv(t, demoPack())

	out, err := e.run(t, "install", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully installed demo-pkg v1.2.0")
	assert.Contains(t, out, "pack install demo")

	dir := filepath.Join(e.modules(), "demo-pkg")
	data, err := os.ReadFile(filepath.Join(dir, "lib", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.FileExists(t, filepath.Join(dir, "index.js"))
	assert.FileExists(t, filepath.Join(dir, model.ManifestFile))
}

func TestInstallTwiceUsesCache(t *testing.T) {
	e := newEnv(t, demoPack())

	_, err := e.run(t, "install", "demo")
	require.NoError(t, err)

	out, err := e.run(t, "install", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded from cache")
	assert.Contains(t, out, "already installed")
	assert.Equal(t, 1, e.reg.Fetches())
}

func TestInstallNoCacheFetchesAgain(t *testing.T) {
	e := newEnv(t, demoPack())

	_, err := e.run(t, "install", "demo")
	require.NoError(t, err)
	_, err = e.run(t, "install", "demo", "--no-cache", "--force")
	require.NoError(t, err)
	assert.Equal(t, 2, e.reg.Fetches())
}

func TestInstallStructuredOutput(t *testing.T) {
	e := newEnv(t, demoPack())

	out, err := e.run(t, "--output", "json", "install", "demo")
	require.NoError(t, err)

	var summary installSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "installed", summary.Outcome)
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, filepath.Join(e.modules(), "demo-pkg"), summary.Location)
}

func TestInstallSaveToProject(t *testing.T) {
	e := newEnv(t, demoPack())
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "package.json"), []byte(`{"name":"app","version":"0.1.0"}`), 0o600))
	t.Chdir(project)

	out, err := e.run(t, "install", "demo", "--save-dev")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved to devDependencies")
	assert.DirExists(t, filepath.Join(project, "node_modules", "demo-pkg"))

	data, err := os.ReadFile(filepath.Join(project, "package.json"))
	require.NoError(t, err)
	var manifest map[string]any
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, map[string]any{"demo-pkg": "^1.2.0"}, manifest["devDependencies"])
}

func TestInstallUnknownPackage(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "install", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNetwork)
	assert.True(t, errors.Reported(err))
	assert.NoDirExists(t, filepath.Join(e.modules(), "missing"))
}

func TestInstallFlagConflicts(t *testing.T) {
	e := newEnv(t, demoPack())

	_, err := e.run(t, "install", "demo", "--save", "--save-dev")
	assert.Error(t, err)
	_, err = e.run(t, "install", "demo", "--global", "--local")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	e := newEnv(t, demoPack(), model.Descriptor{ID: "other", PackageType: "wasm", HasWasm: true})

	out, err := e.run(t, "search", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Search Results: demo")
	assert.Contains(t, out, "demo-pkg")
	assert.NotContains(t, out, "other")
	assert.Contains(t, out, truncate(demoPack().Description, MaxSearchDescriptionLength))
	assert.Contains(t, out, "Showing 1 of 1 results")

	out, err = e.run(t, "search", "--json", "--type", "wasm")
	require.NoError(t, err)
	var result model.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Packs, 1)
	assert.Equal(t, "other", result.Packs[0].ID)
}

func TestSearchLimitAndEmpty(t *testing.T) {
	e := newEnv(t, model.Descriptor{ID: "a"}, model.Descriptor{ID: "b"}, model.Descriptor{ID: "c"})

	out, err := e.run(t, "search", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 2 of 3 results")

	out, err = e.run(t, "search", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No packages found.")
}

func TestInfo(t *testing.T) {
	e := newEnv(t, demoPack())

	out, err := e.run(t, "info", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "ID: demo")
	assert.Contains(t, out, "Demo from pack.json")
	assert.Contains(t, out, e.reg.URL+"/cdn/u-demo")
	assert.Contains(t, out, e.reg.URL+"/pack/u-demo")
	assert.NotContains(t, out, "/wasm/")
	assert.Contains(t, out, "lib/")
}

func TestInfoYAML(t *testing.T) {
	e := newEnv(t, demoPack())

	out, err := e.run(t, "--output", "yaml", "info", "demo")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, true, doc["success"])
	pack, ok := doc["pack"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo", pack["id"])
}

func TestInfoUnknownPackage(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "info", "missing")
	assert.ErrorIs(t, err, errors.ErrNetwork)
}

func TestListAndUninstall(t *testing.T) {
	e := newEnv(t, demoPack())

	out, err := e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No packages installed.")

	_, err = e.run(t, "install", "demo")
	require.NoError(t, err)

	out, err = e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Installed Packages (Local)")
	assert.Contains(t, out, "demo-pkg")
	assert.Contains(t, out, "Total: 1 packages")

	e.confirmer = stubConfirmer(false)
	_, err = e.run(t, "uninstall", "demo-pkg")
	assert.ErrorIs(t, err, errors.ErrCancelled)
	assert.DirExists(t, filepath.Join(e.modules(), "demo-pkg"))

	out, err = e.run(t, "uninstall", "demo-pkg", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully uninstalled demo-pkg")
	assert.NoDirExists(t, filepath.Join(e.modules(), "demo-pkg"))

	_, err = e.run(t, "uninstall", "demo-pkg", "--yes")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestListJSON(t *testing.T) {
	e := newEnv(t, demoPack())
	_, err := e.run(t, "install", "demo", "--global")
	require.NoError(t, err)

	out, err := e.run(t, "--output", "json", "list", "--global")
	require.NoError(t, err)

	var packages []installed.Package
	require.NoError(t, json.Unmarshal([]byte(out), &packages))
	require.Len(t, packages, 1)
	assert.Equal(t, "demo", packages[0].ID)
	assert.Equal(t, filepath.Join(e.home, "global", "demo-pkg"), packages[0].Dir)
}

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{
  // comments are fine
  "name": "widget",
  "version": "2.0.0",
  "description": "A widget"
}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.js"), []byte("export default 1"), 0o600))
	return dir
}

func TestPublish(t *testing.T) {
	e := newEnv(t)
	dir := writeProject(t)

	out, err := e.run(t, "publish", dir, "--key", "secret-key", "--private", "--type", "wasm")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully published widget v2.0.0")
	assert.Contains(t, out, e.reg.URL+"/pack/pub-1")

	uploads := e.reg.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "Bearer secret-key", uploads[0].Authorization)
	assert.Equal(t, "widget.tar.gz", uploads[0].Filename)
	assert.NotEmpty(t, uploads[0].Archive)
	assert.Equal(t, "false", uploads[0].Fields["public"])
	assert.Equal(t, "wasm", uploads[0].Fields["type"])
	assert.Equal(t, "A widget", uploads[0].Fields["description"])
}

func TestPublishUsesConfiguredKey(t *testing.T) {
	e := newEnv(t)
	dir := writeProject(t)

	_, err := e.run(t, "config", "set", "api_key", "from-config")
	require.NoError(t, err)

	_, err = e.run(t, "publish", dir)
	require.NoError(t, err)
	uploads := e.reg.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, "Bearer from-config", uploads[0].Authorization)
	assert.Equal(t, "true", uploads[0].Fields["public"])
	assert.Equal(t, "basic", uploads[0].Fields["type"])
}

func TestPublishWithoutKey(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "publish", writeProject(t))
	assert.ErrorIs(t, err, errors.ErrAuth)
	assert.Empty(t, e.reg.Uploads())
}

func TestConfigCommands(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "config", "set", "cache_ttl", "60")
	require.NoError(t, err)
	assert.Equal(t, "Set cache_ttl = 60\n", out)

	out, err = e.run(t, "config", "get", "cache_ttl")
	require.NoError(t, err)
	assert.Equal(t, "cache_ttl: 60\n", out)

	_, err = e.run(t, "config", "get", "nope")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = e.run(t, "config", "set", "api_key", "abcdef123456")
	require.NoError(t, err)
	out, err = e.run(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "****3456")
	assert.NotContains(t, out, "abcdef123456")
	assert.Contains(t, out, e.reg.URL)

	out, err = e.run(t, "--output", "json", "config", "list")
	require.NoError(t, err)
	var values map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Equal(t, float64(60), values["cache_ttl"])
	assert.Equal(t, "****3456", values["api_key"])

	out, err = e.run(t, "--output", "yaml", "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "****3456")
	assert.NotContains(t, out, "abcdef123456")
}

func TestCacheCommands(t *testing.T) {
	e := newEnv(t, demoPack())

	out, err := e.run(t, "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache is empty")

	_, err = e.run(t, "install", "demo")
	require.NoError(t, err)

	out, err = e.run(t, "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:  1")
	assert.Contains(t, out, filepath.Join(e.home, "cache"))

	out, err = e.run(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 cache entry")
}

func TestVersion(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "PackCDN CLI v1.0.0")
	assert.Contains(t, out, "Registry: "+e.reg.URL)
}

func TestUnknownOutputFormat(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "--output", "xml", "version")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "héllo...", truncate("héllo wörld", 5))
	assert.Equal(t, "日本語...", truncate("日本語のパッケージ", 3))
	assert.True(t, utf8.ValidString(truncate(strings.Repeat("é", 60), MaxSearchDescriptionLength)))
}

func TestFileTree(t *testing.T) {
	lines := fileTree([]string{"a.js", "b.js", "c.js", "d.js", "e.js", "f.js", "src/1.js", "src/2.js", "src/3.js", "src/4.js"})
	assert.Equal(t, []string{
		"  .",
		"  ├── a.js",
		"  ├── b.js",
		"  ├── c.js",
		"  ├── d.js",
		"  ├── e.js",
		"  ├── ... and 1 more files",
		"  ├── src/",
		"  │   ├── 1.js",
		"  │   ├── 2.js",
		"  │   ├── 3.js",
		"  │   ├── ... and 1 more files",
	}, lines)
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	ReportError(&buf, errors.NewNetworkError("install", 404, &errors.RegistryError{
		Message: "Package not found",
		Details: errors.RegistryErrorDetails{
			Suggestions:   []string{"check the id"},
			RecoverySteps: []string{"search first"},
		},
	}, "", nil))

	out := buf.String()
	assert.Contains(t, out, "Error: install failed: HTTP 404: Package not found")
	assert.Contains(t, out, "Suggestions:\n  - check the id")
	assert.Contains(t, out, "Recovery Steps:\n  - search first")

	buf.Reset()
	ReportError(&buf, errors.NewNetworkError("search", 502, nil, "bad gateway", nil))
	assert.Contains(t, buf.String(), "Response: bad gateway")
}
