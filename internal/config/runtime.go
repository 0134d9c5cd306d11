package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath resolves the directory holding the database and any other
// runtime state. Relative values are rooted in the user's home directory.
func GetRuntimePath() string {
	path := os.Getenv("WIZZY_RUNTIME_PATH")
	if path == "" {
		path = ".wizzybot"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
