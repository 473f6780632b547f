// Package config loads application configuration from viper and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR style environment variables in
// a file path.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath resolves the database location, falling back to the
// default under the user's data directory.
func DatabasePath(configured string) string {
	if configured == "" {
		configured = "$HOME/.local/share/boqflow/boqflow.db"
	}
	return ExpandPath(configured)
}
