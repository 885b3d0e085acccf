package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultStorePath resolves the default libsql database location under the
// user data directory, falling back to the working directory.
func DefaultStorePath() string {
	dataDir := userDataDir()
	if strings.TrimSpace(dataDir) == "" {
		return "./lendlens.db"
	}
	return filepath.Join(dataDir, "lendlens", "lendlens.db")
}

func userDataDir() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share")
}
