package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Checksum contains the checksums published next to an artifact
type Checksum struct {
	SHA256 string
	Size   int64
}

// CalculateChecksums hashes a file and records its size
func CalculateChecksums(path string) (*Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Get file info for size
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	sha256Hash := sha256.New()
	if _, err := io.Copy(sha256Hash, f); err != nil {
		return nil, err
	}

	return &Checksum{
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
		Size:   info.Size(),
	}, nil
}

// WriteChecksumFile writes <path>.sha256 in the format read by `sha256sum -c`
// and returns the sidecar path.
func WriteChecksumFile(path string, sum *Checksum) (string, error) {
	sidecar := path + ".sha256"
	line := fmt.Sprintf("%s  %s\n", sum.SHA256, filepath.Base(path))

	if err := WriteFileAtomic(sidecar, []byte(line), 0644); err != nil {
		return "", err
	}

	return sidecar, nil
}
