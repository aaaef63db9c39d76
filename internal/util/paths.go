//nolint:revive // var-naming - package name is meaningful
package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ModlistConfigPath returns the modlist configuration directory.
// MODLIST_HOME overrides the default of ~/.modlist.
func ModlistConfigPath() string {
	if v := os.Getenv("MODLIST_HOME"); v != "" {
		return v
	}
	return filepath.Join(HomeDir(), ".modlist")
}

// ExpandPath expands a leading ~ to the home directory and resolves
// relative paths against baseDir. An empty path stays empty.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
