// Package testutil builds package fixtures for tests.
package testutil

import (
	"archive/tar"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skywarr/relpack/internal/utils"
)

// WriteDeb writes a minimal Debian package to path holding the given control
// record. compression selects the control.tar suffix: "", ".gz", ".xz" or ".zst".
func WriteDeb(path string, control []byte, compression string) error {
	controlTar, err := tarFile("./control", control)
	if err != nil {
		return err
	}

	controlName := "control.tar" + compression
	controlData, err := utils.CompressByName(controlName, controlTar)
	if err != nil {
		return fmt.Errorf("compress %s: %w", controlName, err)
	}

	dataTar, err := tarFile("./usr/share/doc/README", []byte("fixture\n"))
	if err != nil {
		return err
	}
	dataGz, err := utils.GzipCompress(dataTar)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("!<arch>\n")
	writeArMember(&buf, "debian-binary", []byte("2.0\n"))
	writeArMember(&buf, controlName, controlData)
	writeArMember(&buf, "data.tar.gz", dataGz)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// BuildDebFromTree packs root/DEBIAN/control into a .deb at artifact,
// standing in for dpkg-deb --build
func BuildDebFromTree(root, artifact string) error {
	control, err := os.ReadFile(filepath.Join(root, "DEBIAN", "control"))
	if err != nil {
		return err
	}
	return WriteDeb(artifact, control, ".xz")
}

func tarFile(name string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	hdr := &tar.Header{
		Name:    name,
		Mode:    0644,
		Size:    int64(len(data)),
		ModTime: time.Unix(0, 0),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, err
	}
	if _, err := tw.Write(data); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeArMember(buf *bytes.Buffer, name string, data []byte) {
	fmt.Fprintf(buf, "%-16s%-12d%-6d%-6d%-8o%-10d`\n", name, 0, 0, 0, 0100644, len(data))
	buf.Write(data)
	if len(data)%2 != 0 {
		buf.WriteByte('\n')
	}
}
