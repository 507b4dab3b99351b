// Package locate resolves external binaries relative to the remindctl install.
//
// Search order is fixed: the install root first, then the fallback
// directory. Both are passed in explicitly; nothing is resolved against
// the current working directory.
package locate

import (
	"fmt"
	"os"
	"path/filepath"
)

// NotFoundError is returned when a binary exists in none of the search locations.
type NotFoundError struct {
	Binary   string
	Expected string // primary location
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s binary not found. Expected at %s. Make sure to build %s first.",
		e.Binary, e.Expected, e.Binary)
}

// Locator finds binaries under an install root with a fallback directory.
type Locator struct {
	installRoot string
	fallbackDir string
}

// New creates a Locator. Relative paths are made absolute once, here.
func New(installRoot, fallbackDir string) (*Locator, error) {
	if installRoot == "" {
		return nil, fmt.Errorf("install root is empty")
	}
	root, err := filepath.Abs(installRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve install root %q: %w", installRoot, err)
	}

	fallback := ""
	if fallbackDir != "" {
		fallback, err = filepath.Abs(fallbackDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve fallback dir %q: %w", fallbackDir, err)
		}
	}
	return &Locator{installRoot: root, fallbackDir: fallback}, nil
}

// DefaultRoots derives the search directories from the path of the running
// remindctl executable: the fallback is its own directory, the install root
// is the parent of that.
func DefaultRoots(executable string) (installRoot, fallbackDir string, err error) {
	resolved, err := filepath.EvalSymlinks(executable)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve executable symlink: %w", err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve executable path: %w", err)
	}
	fallbackDir = filepath.Dir(abs)
	return filepath.Dir(fallbackDir), fallbackDir, nil
}

// Paths returns the candidate paths for binary in search order.
func (l *Locator) Paths(binary string) []string {
	paths := []string{filepath.Join(l.installRoot, binary)}
	if l.fallbackDir != "" && l.fallbackDir != l.installRoot {
		paths = append(paths, filepath.Join(l.fallbackDir, binary))
	}
	return paths
}

// Locate returns the first existing candidate for binary.
func (l *Locator) Locate(binary string) (string, error) {
	paths := l.Paths(binary)
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", &NotFoundError{Binary: binary, Expected: paths[0]}
}

// Candidate describes one search location for a binary.
type Candidate struct {
	Path       string `json:"path"`
	Exists     bool   `json:"exists"`
	Executable bool   `json:"executable"`
	Dir        bool   `json:"dir,omitempty"`
}

// Probe inspects every search location for binary without stopping at the first hit.
func (l *Locator) Probe(binary string) []Candidate {
	paths := l.Paths(binary)
	out := make([]Candidate, 0, len(paths))
	for _, p := range paths {
		c := Candidate{Path: p}
		info, err := os.Stat(p)
		if err == nil {
			c.Exists = true
			c.Dir = info.IsDir()
			c.Executable = !c.Dir && info.Mode()&0111 != 0
		}
		out = append(out, c)
	}
	return out
}
