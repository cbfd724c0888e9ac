package gpg

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntity(t *testing.T) *openpgp.Entity {
	t.Helper()
	entity, err := openpgp.NewEntity("Lambda Build", "test", "build@example.com", &packet.Config{
		Algorithm: packet.PubKeyAlgoEdDSA,
	})
	require.NoError(t, err)
	return entity
}

func writePrivateKey(t *testing.T, dir string, entity *openpgp.Entity) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivateWithoutSigning(w, nil))
	require.NoError(t, w.Close())

	path := filepath.Join(dir, "signing.asc")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func writePublicKey(t *testing.T, dir, name string, entity *openpgp.Entity) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(w))
	require.NoError(t, w.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestSigner_SignFile_VerifiesWithPublicKey(t *testing.T) {
	dir := t.TempDir()
	entity := newTestEntity(t)

	artifact := filepath.Join(dir, "bootstrap.zip")
	require.NoError(t, os.WriteFile(artifact, []byte("zip bytes"), 0600))

	signer, err := NewSignerFromFile(writePrivateKey(t, dir, entity), nil)
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(signer.KeyID()), signer.KeyID())
	assert.Len(t, signer.KeyID(), 40)

	sigPath, err := signer.SignFile(context.Background(), artifact)
	require.NoError(t, err)
	assert.Equal(t, artifact+SignatureSuffix, sigPath)

	sig, err := os.ReadFile(sigPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(sig), "-----BEGIN PGP SIGNATURE-----"))

	verifier := NewVerifier()
	require.NoError(t, verifier.ImportKeyFromFile(writePublicKey(t, dir, "pub.asc", entity)))
	assert.Equal(t, 1, verifier.GetKeyringSize())
	assert.NoError(t, verifier.VerifySignatureFromFile(artifact, sigPath))
}

func TestSigner_TamperedArtifactFailsVerification(t *testing.T) {
	dir := t.TempDir()
	entity := newTestEntity(t)

	artifact := filepath.Join(dir, "bootstrap")
	require.NoError(t, os.WriteFile(artifact, []byte("original"), 0600))

	signer, err := NewSignerFromFile(writePrivateKey(t, dir, entity), nil)
	require.NoError(t, err)
	sigPath, err := signer.SignFile(context.Background(), artifact)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(artifact, []byte("tampered"), 0600))

	verifier := NewVerifier()
	require.NoError(t, verifier.ImportKeyFromFile(writePublicKey(t, dir, "pub.asc", entity)))
	err = verifier.VerifySignatureFromFile(artifact, sigPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature verification failed")
}

func TestSigner_WrongKeyFailsVerification(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "bootstrap")
	require.NoError(t, os.WriteFile(artifact, []byte("payload"), 0600))

	signer, err := NewSignerFromFile(writePrivateKey(t, dir, newTestEntity(t)), nil)
	require.NoError(t, err)
	sigPath, err := signer.SignFile(context.Background(), artifact)
	require.NoError(t, err)

	verifier := NewVerifier()
	require.NoError(t, verifier.ImportKeyFromFile(writePublicKey(t, dir, "other.asc", newTestEntity(t))))
	assert.Error(t, verifier.VerifySignatureFromFile(artifact, sigPath))
}

func TestNewSignerFromFile_PublicKeyOnly(t *testing.T) {
	dir := t.TempDir()
	path := writePublicKey(t, dir, "pub.asc", newTestEntity(t))

	_, err := NewSignerFromFile(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no private key")
}

func TestNewSignerFromFile_EncryptedKey(t *testing.T) {
	dir := t.TempDir()
	entity := newTestEntity(t)
	passphrase := []byte("s3cret")
	require.NoError(t, entity.EncryptPrivateKeys(passphrase, nil))
	path := writePrivateKey(t, dir, entity)

	_, err := NewSignerFromFile(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encrypted")

	_, err = NewSignerFromFile(path, []byte("wrong"))
	require.Error(t, err)

	signer, err := NewSignerFromFile(path, passphrase)
	require.NoError(t, err)

	artifact := filepath.Join(dir, "bootstrap")
	require.NoError(t, os.WriteFile(artifact, []byte("payload"), 0600))
	_, err = signer.SignFile(context.Background(), artifact)
	assert.NoError(t, err)
}

func TestSigner_SignFile_MissingArtifact(t *testing.T) {
	dir := t.TempDir()
	signer, err := NewSignerFromFile(writePrivateKey(t, dir, newTestEntity(t)), nil)
	require.NoError(t, err)

	_, err = signer.SignFile(context.Background(), filepath.Join(dir, "missing"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "missing"+SignatureSuffix))
	assert.True(t, os.IsNotExist(statErr))
}
