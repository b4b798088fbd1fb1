package scanner

import (
	"bytes"
	"io"
	"os"
)

// Magic bytes for artifact detection
var (
	// Debian packages start with "!<arch>\ndebian"
	debMagic = []byte("!<arch>\ndebian")

	// Windows executables (and so NSIS installers) start with the DOS "MZ" header
	peMagic = []byte("MZ")
)

// DetectArtifactType determines the artifact type from its magic bytes
func DetectArtifactType(path string) (ArtifactType, error) {
	f, err := os.Open(path)
	if err != nil {
		return TypeUnknown, err
	}
	defer f.Close()

	header := make([]byte, len(debMagic))
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return TypeUnknown, err
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, debMagic):
		return TypeDeb, nil
	case bytes.HasPrefix(header, peMagic):
		return TypePE, nil
	default:
		return TypeUnknown, nil
	}
}
