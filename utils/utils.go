// Package utils provides small path helpers shared across the CLI.
package utils

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading tilde and environment variables in a path.
// On expansion failure the input is returned unchanged.
func ExpandPath(path string) string {
	s := os.ExpandEnv(path)
	expanded, err := homedir.Expand(s)
	if err != nil {
		return s
	}
	return expanded
}

// EnsureDir creates the directory (and parents) for a path if missing.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// EnsureParentDir creates the parent directory of a file path if missing.
func EnsureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
