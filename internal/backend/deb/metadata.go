package deb

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/skywarr/relpack/internal/models"
)

// controlFields is the fixed field order of DEBIAN/control
var controlFields = []string{
	"Package",
	"Version",
	"Section",
	"Priority",
	"Architecture",
	"Maintainer",
	"Description",
}

// GenerateControlFile creates the DEBIAN/control record for the manifest
func GenerateControlFile(m models.PackageManifest) []byte {
	var buf bytes.Buffer

	values := map[string]string{
		"Package":      m.Name,
		"Version":      m.Version,
		"Section":      m.Section,
		"Priority":     m.Priority,
		"Architecture": m.Architecture,
		"Maintainer":   m.Maintainer,
		"Description":  m.Description,
	}

	for _, key := range controlFields {
		fmt.Fprintf(&buf, "%s: %s\n", key, values[key])
	}

	return buf.Bytes()
}

// GenerateLauncher creates the /usr/bin wrapper that runs the executable from
// its install directory, forwarding all arguments
func GenerateLauncher(m models.PackageManifest) []byte {
	var buf bytes.Buffer

	buf.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&buf, "cd %s || exit 1\n", shellQuote(m.InstallDir))
	fmt.Fprintf(&buf, "exec ./%s \"$@\"\n", m.Executable)

	return buf.Bytes()
}

// GenerateDesktopEntry creates the freedesktop.org menu entry
func GenerateDesktopEntry(m models.PackageManifest) []byte {
	var buf bytes.Buffer

	buf.WriteString("[Desktop Entry]\n")
	fmt.Fprintf(&buf, "Name=%s\n", m.DisplayName)
	fmt.Fprintf(&buf, "Comment=%s\n", m.Comment)
	fmt.Fprintf(&buf, "Exec=%s\n", m.Name)
	buf.WriteString("Terminal=false\n")
	buf.WriteString("Type=Application\n")
	fmt.Fprintf(&buf, "Categories=%s\n", categories(m.Categories))

	return buf.Bytes()
}

// categories renders the semicolon-terminated Categories list
func categories(list []string) string {
	var b strings.Builder
	for _, c := range list {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		b.WriteString(c)
		b.WriteString(";")
	}
	return b.String()
}

// shellQuote leaves plain paths alone and single-quotes anything else
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r == '/' || r == '.' || r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
