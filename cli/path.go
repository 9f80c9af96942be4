package cli

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ardnew/sheetval/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// defaultDirMode is the permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// userDir returns the directory named after the program beneath the one
// reported by base. Without it, the program directory goes under the dot
// directory of home, and as a last resort under the system temp directory.
func userDir(base, home func() (string, error), dot string) string {
	if dir, err := base(); err == nil && dir != "" {
		return filepath.Join(dir, pkg.Name)
	}

	if dir, err := home(); err == nil && dir != "" {
		return filepath.Join(dir, dot, pkg.Name)
	}

	return filepath.Join(os.TempDir(), pkg.Name)
}

// configDir holds the configuration file.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, os.UserHomeDir, ".config")
})

// cacheDir holds the REPL history and profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, os.UserHomeDir, ".cache")
})

// configFile returns the path of the configuration file.
func configFile() string { return filepath.Join(configDir(), baseConfig) }

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
