package gateways

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// checksummer computes artifact checksums using pure Go
type checksummer struct{}

// NewChecksummer creates a new checksummer
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksummer() *checksummer {
	return &checksummer{}
}

// Sum returns the SHA-256 of data as uppercase hex
func (c *checksummer) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// CalculateChecksum returns the SHA-256 of a file as uppercase hex
func (c *checksummer) CalculateChecksum(filePath string) (string, error) {
	//nolint:gosec // G304: File path is a build artifact chosen by the pipeline
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

// VerifyChecksum compares a file's SHA-256 with an expected hex digest,
// ignoring case
func (c *checksummer) VerifyChecksum(filePath, expectedSum string) error {
	actual, err := c.CalculateChecksum(filePath)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actual, strings.TrimSpace(expectedSum)) {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedSum, actual)
	}

	return nil
}
