// Package metadata provides content hashing for generated artifacts.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrHashMismatch is returned when an artifact no longer matches its recorded hash.
var ErrHashMismatch = errors.New("hash mismatch")

// CalculateHash computes the hex SHA-256 of content.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}

// HashFile computes the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify checks that the file at path still hashes to expected.
func Verify(path, expected string) error {
	calculated, err := HashFile(path)
	if err != nil {
		return err
	}

	if calculated != expected {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, expected, calculated)
	}

	return nil
}
