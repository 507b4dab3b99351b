package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the config file looked for next to the remindctl executable.
const FileName = "remindctl.yaml"

// Discover returns the config file to load.
// Priority order: explicit path (must exist), <fallbackDir>/remindctl.yaml.
// An empty result with a nil error means "use defaults".
func Discover(explicit, fallbackDir string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("failed to resolve config path %q: %w", explicit, err)
		}
		if !fileExists(abs) {
			return "", fmt.Errorf("config file not found: %s", abs)
		}
		return abs, nil
	}

	if fallbackDir == "" {
		return "", nil
	}
	if path := filepath.Join(fallbackDir, FileName); fileExists(path) {
		return path, nil
	}
	return "", nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
