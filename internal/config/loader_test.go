package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		checkFn func(t *testing.T, cfg *Config, dir string)
	}{
		{
			name: "full config",
			yaml: `
paths:
  install_root: /opt/remindctl
  fallback_dir: /opt/remindctl/bin
exec:
  timeout: 30s
  grace_period: 2s
log:
  level: debug
  format: json
binaries:
  section:
    name: sectionctl-v2
    blake3: AF1349B9F5F9A1A6A0404DEA36DCC9499BCB25C9ADC112B7CC9A93CAE41F3262
`,
			checkFn: func(t *testing.T, cfg *Config, dir string) {
				if cfg.Paths.InstallRoot != "/opt/remindctl" {
					t.Errorf("install_root = %q", cfg.Paths.InstallRoot)
				}
				if cfg.Paths.FallbackDir != "/opt/remindctl/bin" {
					t.Errorf("fallback_dir = %q", cfg.Paths.FallbackDir)
				}
				if cfg.Exec.Timeout != 30*time.Second {
					t.Errorf("timeout = %v", cfg.Exec.Timeout)
				}
				if cfg.Exec.GracePeriod != 2*time.Second {
					t.Errorf("grace_period = %v", cfg.Exec.GracePeriod)
				}
				if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
					t.Errorf("log = %+v", cfg.Log)
				}
				if got := cfg.BinaryOverrides()["section"]; got != "sectionctl-v2" {
					t.Errorf("section override = %q", got)
				}
				if _, ok := cfg.BinaryOverrides()["add"]; ok {
					t.Error("add should have no override")
				}
				if got := cfg.Pins()["section"]; got == "" {
					t.Error("section pin not parsed")
				}
			},
		},
		{
			name: "empty file keeps defaults",
			yaml: "",
			checkFn: func(t *testing.T, cfg *Config, dir string) {
				d := Defaults()
				if cfg.Exec != d.Exec || cfg.Log != d.Log {
					t.Errorf("got %+v %+v, want defaults", cfg.Exec, cfg.Log)
				}
				if cfg.Binaries == nil {
					t.Error("Binaries should be non-nil")
				}
			},
		},
		{
			name: "partial config keeps other defaults",
			yaml: `
log:
  level: info
`,
			checkFn: func(t *testing.T, cfg *Config, dir string) {
				if cfg.Log.Level != "info" {
					t.Errorf("level = %q", cfg.Log.Level)
				}
				if cfg.Log.Format != "text" {
					t.Errorf("format = %q, want default", cfg.Log.Format)
				}
				if cfg.Exec.Timeout != 60*time.Second {
					t.Errorf("timeout = %v, want default", cfg.Exec.Timeout)
				}
			},
		},
		{
			name: "explicit zero timeout disables",
			yaml: `
exec:
  timeout: 0s
`,
			checkFn: func(t *testing.T, cfg *Config, dir string) {
				if cfg.Exec.Timeout != 0 {
					t.Errorf("timeout = %v, want 0", cfg.Exec.Timeout)
				}
				if cfg.Exec.GracePeriod != 5*time.Second {
					t.Errorf("grace_period = %v, want default", cfg.Exec.GracePeriod)
				}
			},
		},
		{
			name: "relative paths resolve against config dir",
			yaml: `
paths:
  install_root: ..
  fallback_dir: .
`,
			checkFn: func(t *testing.T, cfg *Config, dir string) {
				if cfg.Paths.InstallRoot != filepath.Dir(dir) {
					t.Errorf("install_root = %q, want %q", cfg.Paths.InstallRoot, filepath.Dir(dir))
				}
				if cfg.Paths.FallbackDir != dir {
					t.Errorf("fallback_dir = %q, want %q", cfg.Paths.FallbackDir, dir)
				}
			},
		},
		{
			name:    "negative timeout",
			yaml:    "exec:\n  timeout: -1s\n",
			wantErr: "exec.timeout must not be negative",
		},
		{
			name:    "zero grace period",
			yaml:    "exec:\n  grace_period: 0s\n",
			wantErr: "exec.grace_period must be positive",
		},
		{
			name:    "unknown log level",
			yaml:    "log:\n  level: verbose\n",
			wantErr: "log.level must be one of",
		},
		{
			name:    "unknown log format",
			yaml:    "log:\n  format: xml\n",
			wantErr: "log.format must be one of",
		},
		{
			name:    "unknown command override",
			yaml:    "binaries:\n  archive:\n    name: archivectl\n",
			wantErr: "binaries.archive: unknown command",
		},
		{
			name:    "malformed pin",
			yaml:    "binaries:\n  add:\n    blake3: deadbeef\n",
			wantErr: "binaries.add.blake3 must be a 64-character hex digest",
		},
		{
			name:    "fallback without root",
			yaml:    "paths:\n  fallback_dir: /opt/bin\n",
			wantErr: "paths.fallback_dir requires paths.install_root",
		},
		{
			name:    "unknown key",
			yaml:    "exec:\n  retries: 3\n",
			wantErr: "field retries not found",
		},
		{
			name:    "bad duration",
			yaml:    "exec:\n  timeout: soon\n",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeConfig(t, dir, tt.yaml)

			cfg, err := Load(path)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Load() succeeded, want error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load() error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if cfg.SourceFile != path {
				t.Errorf("SourceFile = %q, want %q", cfg.SourceFile, path)
			}
			if tt.checkFn != nil {
				tt.checkFn(t, cfg, dir)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	got, err := Discover("", dir)
	if err != nil || got != "" {
		t.Fatalf("Discover() = %q, %v; want defaults", got, err)
	}

	got, err = Discover("", "")
	if err != nil || got != "" {
		t.Fatalf("Discover() with no fallback = %q, %v", got, err)
	}

	path := writeConfig(t, dir, "log:\n  level: info\n")
	got, err = Discover("", dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("Discover() = %q, want %q", got, path)
	}

	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(explicit, nil, 0644); err != nil {
		t.Fatal(err)
	}
	got, err = Discover(explicit, dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != explicit {
		t.Errorf("explicit path should win, got %q", got)
	}

	if _, err := Discover(filepath.Join(dir, "missing.yaml"), dir); err == nil {
		t.Error("missing explicit config should fail")
	}
	if _, err := Discover(dir, ""); err == nil {
		t.Error("directory as explicit config should fail")
	}
}

func TestVerifyFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminderctl")
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho ok\n"), 0755); err != nil {
		t.Fatal(err)
	}

	hash, err := ComputeBlake3Hash(path)
	if err != nil {
		t.Fatalf("ComputeBlake3Hash() failed: %v", err)
	}
	if !ValidPin(hash) {
		t.Fatalf("hash %q is not a valid pin", hash)
	}

	if err := VerifyFileHash(path, strings.ToUpper(hash)); err != nil {
		t.Errorf("VerifyFileHash() with uppercase pin failed: %v", err)
	}

	wrong := strings.Repeat("0", 64)
	err = VerifyFileHash(path, wrong)
	var mismatch *PinMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("VerifyFileHash() error = %v, want PinMismatchError", err)
	}
	if mismatch.Actual != hash || mismatch.Expected != wrong {
		t.Errorf("mismatch = %+v", mismatch)
	}
	if !strings.Contains(err.Error(), "hash mismatch for reminderctl") {
		t.Errorf("error = %q", err)
	}
}

func TestValidPin(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{strings.Repeat("a", 64), true},
		{" " + strings.Repeat("F", 64), true},
		{strings.Repeat("a", 63), false},
		{strings.Repeat("g", 64), false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidPin(tt.pin); got != tt.want {
			t.Errorf("ValidPin(%q) = %v, want %v", tt.pin, got, tt.want)
		}
	}
}
