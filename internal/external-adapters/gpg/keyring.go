// Package gpg signs and verifies packaged artifacts with OpenPGP keys.
package gpg

import (
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// readKeyFile reads an armored or binary keyring from disk
func readKeyFile(keyPath string) (openpgp.EntityList, error) {
	//nolint:gosec // G304: keyPath is user-provided for GPG key import
	f, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	keys, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try reading as binary
		if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("failed to reset file: %w", seekErr)
		}
		keys, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("no keys found in file")
	}

	return keys, nil
}

// isArmoredSignature peeks at the start of a signature file
func isArmoredSignature(f io.ReadSeeker) (bool, error) {
	peek := make([]byte, 27)
	n, _ := io.ReadFull(f, peek)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("failed to reset signature file: %w", err)
	}
	return n == 27 && string(peek) == "-----BEGIN PGP SIGNATURE---", nil
}
