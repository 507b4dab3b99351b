package config

import (
	"time"

	"github.com/mattjoyce/remindctl/internal/invoke"
)

// Config represents the complete remindctl configuration.
type Config struct {
	Paths    PathsConfig           `yaml:"paths"`
	Exec     ExecConfig            `yaml:"exec"`
	Log      LogConfig             `yaml:"log"`
	Binaries map[string]BinaryConf `yaml:"binaries,omitempty"`

	// SourceFile is the file the config was loaded from, empty for defaults.
	SourceFile string `yaml:"-"`
}

// PathsConfig defines where external binaries are searched for.
// Empty values mean "derive from the remindctl executable".
type PathsConfig struct {
	InstallRoot string `yaml:"install_root,omitempty"`
	FallbackDir string `yaml:"fallback_dir,omitempty"`
}

// ExecConfig bounds external command execution.
type ExecConfig struct {
	Timeout     time.Duration `yaml:"timeout"` // 0 disables
	GracePeriod time.Duration `yaml:"grace_period"`
}

// LogConfig defines diagnostic logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BinaryConf overrides the binary a subcommand forwards to.
type BinaryConf struct {
	Name   string `yaml:"name,omitempty"`
	Blake3 string `yaml:"blake3,omitempty"` // hex digest the binary must match
}

// Defaults returns a Config with the built-in defaults.
func Defaults() *Config {
	return &Config{
		Exec: ExecConfig{
			Timeout:     invoke.DefaultTimeout,
			GracePeriod: invoke.DefaultGracePeriod,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Binaries: make(map[string]BinaryConf),
	}
}

// BinaryOverrides returns the configured binary names keyed by subcommand.
func (c *Config) BinaryOverrides() map[string]string {
	out := make(map[string]string)
	for cmd, b := range c.Binaries {
		if b.Name != "" {
			out[cmd] = b.Name
		}
	}
	return out
}

// Pins returns the configured BLAKE3 digests keyed by subcommand.
func (c *Config) Pins() map[string]string {
	out := make(map[string]string)
	for cmd, b := range c.Binaries {
		if b.Blake3 != "" {
			out[cmd] = b.Blake3
		}
	}
	return out
}
