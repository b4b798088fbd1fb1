package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/utils"
)

const (
	// DefaultConfigFilename is the release configuration looked up when no path is given.
	DefaultConfigFilename = "relpack.yaml"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")

	// Debian policy §5.6.1 and §5.6.12.
	packageNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9+.-]+$`)
	versionPattern     = regexp.MustCompile(`^([0-9]+:)?[0-9][A-Za-z0-9.+~:-]*$`)
)

// Default returns the configuration for the SkyWarr release.
func Default() *models.ReleaseConfig {
	return &models.ReleaseConfig{
		Product: models.ProductConfig{
			Name:         "SkyWarr",
			DisplayName:  "Sky Warr",
			PackageName:  "skywarr",
			Version:      "1.0.0",
			Architecture: "amd64",
			Maintainer:   "SkyWarr Developer <developer@example.com>",
			Description:  "Space shooter game with single and multiplayer modes",
			Comment:      "Space shooter game",
			Section:      "games",
			Priority:     "optional",
			Categories:   []string{"Game", "ArcadeGame"},
		},
		Assets: models.AssetsConfig{
			Dir:     "assets",
			Marker:  filepath.Join("images", "menu_bg.jpg"),
			Command: []string{"python", "create_assets.py"},
		},
		Build: models.BuildConfig{
			OutputDir: filepath.Join("dist", "SkyWarr"),
			Command:   []string{"python", "-m", "PyInstaller", "skywarr.spec", "--clean"},
		},
		Deb: models.DebConfig{
			StagingDir:       "deb_dist",
			Tool:             "dpkg-deb",
			LauncherSegments: []string{"usr/bin"},
		},
		NSIS: models.NSISConfig{
			StagingDir: "win_dist",
			Script:     "installer.nsi",
			OutputFile: "SkyWarr_Setup.exe",
			InstallDir: `$PROGRAMFILES\SkyWarr`,
			ToolPaths: []string{
				"C:/Program Files (x86)/NSIS/makensis.exe",
				"C:/Program Files/NSIS/makensis.exe",
			},
		},
		Verify:   true,
		Checksum: true,
	}
}

// Load reads the release configuration from path on top of Default and then
// applies RELPACK_* environment overrides.
// A missing file is only tolerated for the default path.
func Load(path string) (*models.ReleaseConfig, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal release config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// Built-in defaults.
	default:
		return nil, fmt.Errorf("read release config: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to path in YAML format.
func Save(path string, cfg *models.ReleaseConfig) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal release config: %w", err)
	}

	if err := utils.WriteFileAtomic(filepath.Clean(path), data, 0o644); err != nil {
		return fmt.Errorf("write release config: %w", err)
	}

	return nil
}

// Validate checks required fields and fills derived defaults.
func Validate(cfg *models.ReleaseConfig) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	p := &cfg.Product

	if p.Name == "" {
		return invalid("product.name is required")
	}

	if p.PackageName == "" {
		p.PackageName = strings.ToLower(p.Name)
	}

	if !packageNamePattern.MatchString(p.PackageName) {
		return invalid("product.package_name %q is not a valid Debian package name", p.PackageName)
	}

	if !versionPattern.MatchString(p.Version) {
		return invalid("product.version %q is not a valid package version", p.Version)
	}

	if p.Architecture == "" {
		return invalid("product.architecture is required")
	}

	if p.Maintainer == "" {
		return invalid("product.maintainer is required")
	}

	if strings.ContainsAny(p.Description, "\n") {
		return invalid("product.description must be a single line")
	}

	if p.DisplayName == "" {
		p.DisplayName = p.Name
	}

	if cfg.Build.OutputDir == "" {
		return invalid("build.output_dir is required")
	}

	if cfg.Deb.StagingDir == "" {
		cfg.Deb.StagingDir = "deb_dist"
	}

	if cfg.Deb.Tool == "" {
		cfg.Deb.Tool = "dpkg-deb"
	}

	if len(cfg.Deb.LauncherSegments) == 0 {
		cfg.Deb.LauncherSegments = []string{"usr/bin"}
	}

	if cfg.NSIS.OutputFile == "" {
		cfg.NSIS.OutputFile = p.Name + "_Setup.exe"
	}

	if cfg.NSIS.InstallDir == "" {
		cfg.NSIS.InstallDir = `$PROGRAMFILES\` + p.Name
	}

	return nil
}

func invalid(format string, args ...any) error {
	return &models.PackError{
		Type: models.ErrInvalidConfig,
		Err:  fmt.Errorf(format, args...),
	}
}
