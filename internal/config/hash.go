package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zeebo/blake3"
)

var pinPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// PinMismatchError is returned when a binary does not match its configured digest.
type PinMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *PinMismatchError) Error() string {
	return fmt.Sprintf("hash mismatch for %s: expected %s, got %s",
		filepath.Base(e.Path), e.Expected, e.Actual)
}

// ComputeBlake3Hash computes the BLAKE3 hash of a file.
func ComputeBlake3Hash(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// VerifyFileHash verifies a file against an expected BLAKE3 hash.
func VerifyFileHash(filePath, expectedHash string) error {
	actualHash, err := ComputeBlake3Hash(filePath)
	if err != nil {
		return fmt.Errorf("failed to compute hash: %w", err)
	}

	expectedHash = NormalizePin(expectedHash)
	if actualHash != expectedHash {
		return &PinMismatchError{Path: filePath, Expected: expectedHash, Actual: actualHash}
	}

	return nil
}

// NormalizePin lowercases a configured digest and strips surrounding space.
func NormalizePin(pin string) string {
	return strings.ToLower(strings.TrimSpace(pin))
}

// ValidPin reports whether pin looks like a BLAKE3-256 hex digest.
func ValidPin(pin string) bool {
	return pinPattern.MatchString(NormalizePin(pin))
}
