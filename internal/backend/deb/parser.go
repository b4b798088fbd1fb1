package deb

import (
	"archive/tar"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/skywarr/relpack/internal/utils"
)

const (
	arMagic      = "!<arch>\n"
	arHeaderSize = 60

	// maxControlSize bounds the control.tar member read into memory
	maxControlSize = 16 << 20
)

// Control is a parsed DEBIAN/control record
type Control struct {
	Fields map[string]string
	// Order lists field names as they appeared
	Order []string
}

// Get returns the value of a control field
func (c *Control) Get(key string) string {
	return c.Fields[key]
}

// ReadControl extracts and parses the control record from a .deb file
func ReadControl(path string) (*Control, error) {
	data, err := extractControl(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract control: %w", err)
	}

	ctrl, err := ParseControl(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse control: %w", err)
	}

	return ctrl, nil
}

// extractControl extracts the control file from a .deb package
func extractControl(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// .deb files are ar archives
	header := make([]byte, len(arMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return nil, fmt.Errorf("read ar magic: %w", err)
	}
	if string(header) != arMagic {
		return nil, fmt.Errorf("not an ar archive")
	}

	// Read ar archive entries
	arHeader := make([]byte, arHeaderSize)
	for {
		if _, err := io.ReadFull(f, arHeader); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to read ar header: %w", err)
		}

		// Parse filename (first 16 bytes, space-padded)
		// Also trim trailing slash that ar format may include
		filename := strings.TrimRight(strings.TrimSpace(string(arHeader[0:16])), "/")

		// Parse file size (bytes 48-58, decimal)
		size, err := strconv.ParseInt(strings.TrimSpace(string(arHeader[48:58])), 10, 64)
		if err != nil || size < 0 {
			return nil, fmt.Errorf("invalid ar member size for %s", filename)
		}

		// Check if this is the control archive
		if strings.HasPrefix(filename, "control.tar") {
			if size > maxControlSize {
				return nil, fmt.Errorf("%s is %d bytes, larger than the %d byte limit", filename, size, maxControlSize)
			}
			data := make([]byte, size)
			if _, err := io.ReadFull(f, data); err != nil {
				return nil, err
			}

			return extractControlFromTar(data, filename)
		}

		// Skip this member's data, aligned to a 2-byte boundary
		skip := size + size%2
		if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("control.tar not found in package")
}

// extractControlFromTar extracts the control file from control.tar*
func extractControlFromTar(data []byte, filename string) ([]byte, error) {
	r, closeFn, err := utils.DecompressByName(filename, data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", filename, err)
	}
	defer closeFn()

	tarReader := tar.NewReader(r)

	// Find and read control file
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if header.Name == "./control" || header.Name == "control" {
			return io.ReadAll(tarReader)
		}
	}

	return nil, fmt.Errorf("control file not found in %s", filename)
}

// ParseControl parses the Debian control file format
func ParseControl(data []byte) (*Control, error) {
	ctrl := &Control{Fields: make(map[string]string)}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	var currentKey string
	var currentValue strings.Builder

	flush := func() {
		if currentKey == "" {
			return
		}
		if _, seen := ctrl.Fields[currentKey]; !seen {
			ctrl.Order = append(ctrl.Order, currentKey)
		}
		ctrl.Fields[currentKey] = currentValue.String()
	}

	for scanner.Scan() {
		line := scanner.Text()

		// Handle continuation lines (start with space)
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			currentValue.WriteString("\n")
			currentValue.WriteString(strings.TrimSpace(line))
			continue
		}

		// Save previous key-value pair
		flush()
		currentKey = ""

		// Parse new key-value pair
		if key, value, ok := strings.Cut(line, ":"); ok {
			currentKey = strings.TrimSpace(key)
			currentValue.Reset()
			currentValue.WriteString(strings.TrimSpace(value))
		}
	}

	// Save last key-value pair
	flush()

	return ctrl, scanner.Err()
}
