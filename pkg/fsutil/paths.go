package fsutil

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the application used in paths.
	AppName = "pack"
	// HomeEnv overrides the per-user state directory.
	HomeEnv = "PACK_HOME"
)

// GetHomeDir returns the per-user state directory holding config and cache.
// $PACK_HOME wins; otherwise ~/.pack.
func GetHomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppName), nil
}

// GetConfigPath returns <home>/config.json.
func GetConfigPath() (string, error) {
	dir, err := GetHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetCacheDir returns <home>/cache.
func GetCacheDir() (string, error) {
	dir, err := GetHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}
