package gpg

import (
	"context"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// SignatureSuffix is appended to an artifact path to name its signature.
const SignatureSuffix = ".asc"

// Signer writes armored detached signatures for packaged artifacts
type Signer struct {
	entity *openpgp.Entity
}

// NewSignerFromFile loads the first private key found in keyPath.
// Encrypted keys are unlocked with passphrase.
func NewSignerFromFile(keyPath string, passphrase []byte) (*Signer, error) {
	keys, err := readKeyFile(keyPath)
	if err != nil {
		return nil, err
	}

	var entity *openpgp.Entity
	for _, k := range keys {
		if k.PrivateKey != nil {
			entity = k
			break
		}
	}
	if entity == nil {
		return nil, fmt.Errorf("no private key found in %s", keyPath)
	}

	if entity.PrivateKey.Encrypted {
		if len(passphrase) == 0 {
			return nil, fmt.Errorf("private key in %s is encrypted and no passphrase was provided", keyPath)
		}
		if err := entity.DecryptPrivateKeys(passphrase); err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
	}

	return &Signer{entity: entity}, nil
}

// SignFile writes <path>.asc and returns its path
func (s *Signer) SignFile(_ context.Context, path string) (string, error) {
	//nolint:gosec // G304: path is an artifact produced by the packager
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer in.Close()

	sigPath := path + SignatureSuffix
	//nolint:gosec // G304: signature path is derived from the artifact path
	out, err := os.Create(sigPath)
	if err != nil {
		return "", fmt.Errorf("failed to create signature file: %w", err)
	}

	if err := openpgp.ArmoredDetachSign(out, s.entity, in, nil); err != nil {
		//nolint:errcheck // Best effort cleanup of a partial signature
		out.Close()
		//nolint:errcheck // Best effort cleanup of a partial signature
		os.Remove(sigPath)
		return "", fmt.Errorf("failed to sign %s: %w", path, err)
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write signature file: %w", err)
	}

	return sigPath, nil
}

// KeyID returns the hex fingerprint of the signing key
func (s *Signer) KeyID() string {
	return fmt.Sprintf("%X", s.entity.PrimaryKey.Fingerprint)
}
