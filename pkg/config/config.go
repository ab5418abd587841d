// Package config manages the pack configuration file. The configuration is a
// flat JSON object: every key has a built-in default and the file on disk only
// needs to carry the keys a user changed.
package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/glorpus-work/pack/internal/logger"
	"github.com/glorpus-work/pack/pkg/errors"
	"github.com/glorpus-work/pack/pkg/fsutil"
	"github.com/tidwall/jsonc"
)

// Configuration keys.
const (
	KeyRegistry           = "registry"
	KeyDefaultInstallPath = "default_install_path"
	KeyGlobalInstallPath  = "global_install_path"
	KeyAPIKey             = "api_key"
	KeyUsername           = "username"
	KeyCacheEnabled       = "cache_enabled"
	KeyCacheTTL           = "cache_ttl"
	KeyHTTPTimeout        = "http_timeout"
	KeyLogLevel           = "log_level"
)

// Default configuration values.
const (
	DefaultRegistry          = "https://packcdn.firefly-worker.workers.dev"
	DefaultGlobalInstallPath = "/usr/local/lib/pack"
	DefaultLocalDirName      = "pack_modules"

	// DefaultCacheTTL is the cache freshness window in seconds.
	DefaultCacheTTL = 3600

	// DefaultHTTPTimeout is the registry request timeout in seconds.
	DefaultHTTPTimeout = 30

	// JSONIndent is the indentation used when writing the config file.
	JSONIndent = "  "
)

// Config holds the effective configuration: defaults overlaid by the file.
// Only the keys read from the file or changed with Set are written back, so
// working-directory dependent defaults never leak into the file.
type Config struct {
	path      string
	values    map[string]any
	persisted map[string]any
}

// Defaults returns the built-in configuration values. The default install
// path depends on the working directory at the time of the call.
func Defaults() map[string]any {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return map[string]any{
		KeyRegistry:           DefaultRegistry,
		KeyDefaultInstallPath: filepath.Join(cwd, DefaultLocalDirName),
		KeyGlobalInstallPath:  DefaultGlobalInstallPath,
		KeyAPIKey:             nil,
		KeyUsername:           nil,
		KeyCacheEnabled:       true,
		KeyCacheTTL:           DefaultCacheTTL,
		KeyHTTPTimeout:        DefaultHTTPTimeout,
		KeyLogLevel:           "info",
	}
}

// DefaultConfig returns a configuration bound to path holding only defaults.
func DefaultConfig(path string) *Config {
	return &Config{path: path, values: Defaults(), persisted: map[string]any{}}
}

// Load reads the configuration at path. A missing file yields the defaults.
// A file that cannot be read or parsed is reported as a warning and the
// defaults are used, so a broken config never blocks a command.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	cfg := DefaultConfig(path)

	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Cannot read config file, using defaults", logger.Fields{"path": path, "error": err.Error()})
		}
		return cfg, nil
	}
	defer func() { _ = file.Close() }()

	if err := cfg.merge(file); err != nil {
		logger.Warn("Cannot parse config file, using defaults", logger.Fields{"path": path, "error": err.Error()})
		return DefaultConfig(path), nil
	}
	return cfg, nil
}

// LoadFromReader overlays the JSON document in reader onto the defaults.
func LoadFromReader(reader io.Reader) (*Config, error) {
	cfg := DefaultConfig("")
	if err := cfg.merge(reader); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return errors.Wrap(err, "failed to read config data")
	}

	var persisted map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &persisted); err != nil {
		return errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	for key, value := range persisted {
		c.values[key] = normalize(value)
		c.persisted[key] = normalize(value)
	}
	return nil
}

// Save writes the persisted keys to path as indented JSON, replacing the
// previous file in one step.
func (c *Config) Save(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	data, err := json.MarshalIndent(c.persisted, "", JSONIndent)
	if err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.IOError(err, "failed to create config directory for %s", path)
	}
	if err := fsutil.WriteFileAtomic(path, append(data, '\n'), fsutil.FileModeSecure); err != nil {
		return errors.IOError(err, "failed to write config file %s", path)
	}
	return nil
}

// Path returns the file this configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Keys returns all configuration keys in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for key := range c.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Values returns a copy of all configuration values.
func (c *Config) Values() map[string]any {
	out := make(map[string]any, len(c.values))
	for key, value := range c.values {
		out[key] = value
	}
	return out
}

// Registry returns the registry base URL.
func (c *Config) Registry() string {
	return c.stringValue(KeyRegistry, DefaultRegistry)
}

// APIKey returns the configured publish key, or "".
func (c *Config) APIKey() string {
	return c.stringValue(KeyAPIKey, "")
}

// Username returns the configured user name, or "".
func (c *Config) Username() string {
	return c.stringValue(KeyUsername, "")
}

// CacheEnabled reports whether registry replies may be cached.
func (c *Config) CacheEnabled() bool {
	switch v := c.values[KeyCacheEnabled].(type) {
	case bool:
		return v
	case string:
		b, ok := parseBool(v)
		return !ok || b
	default:
		return true
	}
}

// CacheTTL returns the cache freshness window.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.intValue(KeyCacheTTL, DefaultCacheTTL)) * time.Second
}

// HTTPTimeout returns the registry request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.intValue(KeyHTTPTimeout, DefaultHTTPTimeout)) * time.Second
}

// GlobalInstallPath returns the install root used with --global.
func (c *Config) GlobalInstallPath() string {
	return c.stringValue(KeyGlobalInstallPath, DefaultGlobalInstallPath)
}

// DefaultInstallPath returns the install root used outside a project.
func (c *Config) DefaultInstallPath() string {
	return c.stringValue(KeyDefaultInstallPath, DefaultLocalDirName)
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() string {
	return c.stringValue(KeyLogLevel, "info")
}
