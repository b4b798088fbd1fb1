package models

import "fmt"

// PackageManifest is the metadata rendered into the packaging format's
// control record or installer script
type PackageManifest struct {
	Name         string // Package name, e.g. "skywarr"
	Product      string // Product/executable base name, e.g. "SkyWarr"
	DisplayName  string
	Version      string
	Section      string
	Priority     string
	Architecture string
	Maintainer   string
	Description  string
	Comment      string
	Categories   []string

	// Executable is the file name of the binary inside the build tree
	Executable string
	// InstallDir is where the payload lands on the target system
	InstallDir string
}

// NewManifest derives the manifest fields from a release configuration
func NewManifest(cfg *ReleaseConfig) PackageManifest {
	return PackageManifest{
		Name:         cfg.Product.PackageName,
		Product:      cfg.Product.Name,
		DisplayName:  cfg.Product.DisplayName,
		Version:      cfg.Product.Version,
		Section:      cfg.Product.Section,
		Priority:     cfg.Product.Priority,
		Architecture: cfg.Product.Architecture,
		Maintainer:   cfg.Product.Maintainer,
		Description:  cfg.Product.Description,
		Comment:      cfg.Product.Comment,
		Categories:   append([]string(nil), cfg.Product.Categories...),
		Executable:   cfg.Product.Name,
	}
}

// DebFilename returns the conventional name_version_arch.deb file name
func (m PackageManifest) DebFilename() string {
	return fmt.Sprintf("%s_%s_%s.deb", m.Name, m.Version, m.Architecture)
}

// PackagingResult describes a successful packaging tool invocation
type PackagingResult struct {
	ArtifactPath string
	// Output is the combined stdout/stderr of the last attempt
	Output   string
	Attempts int
	// Retried is true when the first attempt failed and the umask retry succeeded
	Retried bool
}
