package signer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/require"
)

// writeTestKey generates an unencrypted signing key and stores it armored
func writeTestKey(t *testing.T) (string, *openpgp.Entity) {
	t.Helper()

	entity, err := openpgp.NewEntity("SkyWarr Release", "test", "release@example.com",
		&packet.Config{Algorithm: packet.PubKeyAlgoEdDSA})
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "release.asc")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path, entity
}

func TestSignFile(t *testing.T) {
	keyPath, entity := writeTestKey(t)
	s, err := NewGPGSigner(keyPath, "")
	require.NoError(t, err)
	require.Equal(t, entity.PrimaryKey.KeyIdString(), s.KeyID())

	artifact := filepath.Join(t.TempDir(), "skywarr_1.0.0_amd64.deb")
	require.NoError(t, os.WriteFile(artifact, []byte("!<arch>\ndebian-binary"), 0644))

	sigPath, err := SignFile(s, artifact)
	require.NoError(t, err)
	require.Equal(t, artifact+".asc", sigPath)

	sig, err := os.ReadFile(sigPath)
	require.NoError(t, err)
	require.Contains(t, string(sig), "BEGIN PGP SIGNATURE")

	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	signer, err := openpgp.CheckArmoredDetachedSignature(openpgp.EntityList{entity}, bytes.NewReader(data), bytes.NewReader(sig), nil)
	require.NoError(t, err)
	require.Equal(t, entity.PrimaryKey.KeyId, signer.PrimaryKey.KeyId)
}

func TestClearsignFile(t *testing.T) {
	keyPath, entity := writeTestKey(t)
	s, err := NewGPGSigner(keyPath, "")
	require.NoError(t, err)

	sum := filepath.Join(t.TempDir(), "skywarr_1.0.0_amd64.deb.sha256")
	require.NoError(t, os.WriteFile(sum, []byte("abc123  skywarr_1.0.0_amd64.deb\n"), 0644))

	out, err := ClearsignFile(s, sum)
	require.NoError(t, err)

	signed, err := os.ReadFile(out)
	require.NoError(t, err)

	block, _ := clearsign.Decode(signed)
	require.NotNil(t, block)
	require.Contains(t, string(block.Plaintext), "skywarr_1.0.0_amd64.deb")

	_, err = block.VerifySignature(openpgp.EntityList{entity}, nil)
	require.NoError(t, err)
}

func TestKeyID(t *testing.T) {
	keyPath, entity := writeTestKey(t)
	s, err := NewGPGSigner(keyPath, "")
	require.NoError(t, err)
	require.Equal(t, entity.PrimaryKey.KeyIdString(), s.KeyID())
}

func TestNewGPGSignerErrors(t *testing.T) {
	_, err := NewGPGSigner("", "")
	require.Error(t, err)

	_, err = NewGPGSigner(filepath.Join(t.TempDir(), "missing.asc"), "")
	require.ErrorContains(t, err, "failed to open key file")

	junk := filepath.Join(t.TempDir(), "junk.asc")
	require.NoError(t, os.WriteFile(junk, []byte("not a key"), 0600))
	_, err = NewGPGSigner(junk, "")
	require.ErrorContains(t, err, "failed to read key")
}
