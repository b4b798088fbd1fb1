package signer

import (
	"fmt"
	"os"

	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/utils"
)

// Signer interface for signing release artifacts
type Signer interface {
	// SignCleartext creates a cleartext signature (for checksum sidecars)
	SignCleartext(data []byte) ([]byte, error)

	// SignDetached creates an armored detached signature (for <artifact>.asc)
	SignDetached(data []byte) ([]byte, error)

	// KeyID returns the hex key id of the signing key
	KeyID() string
}

// SignFile writes an armored detached signature of path to path.asc
func SignFile(s Signer, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", models.NewError(models.ErrSigning, "sign", err)
	}

	sig, err := s.SignDetached(data)
	if err != nil {
		return "", models.NewError(models.ErrSigning, "sign", fmt.Errorf("sign %s: %w", path, err))
	}

	out := path + ".asc"
	if err := utils.WriteFileAtomic(out, sig, 0644); err != nil {
		return "", models.NewError(models.ErrSigning, "sign", err)
	}
	return out, nil
}

// ClearsignFile writes a cleartext-signed copy of path to path.asc
func ClearsignFile(s Signer, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", models.NewError(models.ErrSigning, "sign", err)
	}

	signed, err := s.SignCleartext(data)
	if err != nil {
		return "", models.NewError(models.ErrSigning, "sign", fmt.Errorf("clearsign %s: %w", path, err))
	}

	out := path + ".asc"
	if err := utils.WriteFileAtomic(out, signed, 0644); err != nil {
		return "", models.NewError(models.ErrSigning, "sign", err)
	}
	return out, nil
}
