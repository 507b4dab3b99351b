package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mattjoyce/remindctl/internal/command"
)

// Load reads and parses configuration from a file.
// Keys absent from the file keep their Defaults() values, so an explicit
// `timeout: 0` is distinguishable from an omitted one.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", absPath, err)
	}
	cfg.SourceFile = absPath

	// Relative paths are resolved against the config file, not the cwd.
	baseDir := filepath.Dir(absPath)
	cfg.Paths.InstallRoot = resolvePath(baseDir, cfg.Paths.InstallRoot)
	cfg.Paths.FallbackDir = resolvePath(baseDir, cfg.Paths.FallbackDir)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	cfg := Defaults()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if cfg.Binaries == nil {
		cfg.Binaries = make(map[string]BinaryConf)
	}
	return cfg, nil
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func validate(cfg *Config) error {
	if cfg.Exec.Timeout < 0 {
		return fmt.Errorf("exec.timeout must not be negative (got %v)", cfg.Exec.Timeout)
	}
	if cfg.Exec.GracePeriod <= 0 {
		return fmt.Errorf("exec.grace_period must be positive (got %v)", cfg.Exec.GracePeriod)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error (got %q)", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("log.format must be one of: text, json (got %q)", cfg.Log.Format)
	}

	if cfg.Paths.InstallRoot == "" && cfg.Paths.FallbackDir != "" {
		return fmt.Errorf("paths.fallback_dir requires paths.install_root")
	}

	known := make(map[string]bool)
	for _, name := range command.Default().Names() {
		known[name] = true
	}

	names := make([]string, 0, len(cfg.Binaries))
	for name := range cfg.Binaries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b := cfg.Binaries[name]
		if !known[name] {
			return fmt.Errorf("binaries.%s: unknown command", name)
		}
		if b.Blake3 != "" && !ValidPin(b.Blake3) {
			return fmt.Errorf("binaries.%s.blake3 must be a 64-character hex digest", name)
		}
	}

	return nil
}
