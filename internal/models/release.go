package models

// ReleaseConfig contains configuration for a packaging run
type ReleaseConfig struct {
	Product ProductConfig `yaml:"product"`
	Assets  AssetsConfig  `yaml:"assets"`
	Build   BuildConfig   `yaml:"build"`
	Deb     DebConfig     `yaml:"deb"`
	NSIS    NSISConfig    `yaml:"nsis"`
	Signing SigningConfig `yaml:"signing"`

	// Verify re-reads the built artifact and checks it against the manifest
	Verify bool `yaml:"verify" env:"RELPACK_VERIFY"`
	// Checksum writes a <artifact>.sha256 sidecar
	Checksum bool `yaml:"checksum" env:"RELPACK_CHECKSUM"`
}

// ProductConfig describes the application being packaged
type ProductConfig struct {
	// Name is the executable and product name, e.g. "SkyWarr"
	Name        string `yaml:"name" env:"RELPACK_PRODUCT_NAME"`
	DisplayName string `yaml:"display_name" env:"RELPACK_DISPLAY_NAME"`
	// PackageName is the lowercase Debian package name
	PackageName  string `yaml:"package_name" env:"RELPACK_PACKAGE_NAME"`
	Version      string `yaml:"version" env:"RELPACK_VERSION"`
	Architecture string `yaml:"architecture" env:"RELPACK_ARCH"`
	Maintainer   string `yaml:"maintainer" env:"RELPACK_MAINTAINER"`
	Description  string `yaml:"description" env:"RELPACK_DESCRIPTION"`

	Comment    string   `yaml:"comment"` // Desktop entry comment
	Section    string   `yaml:"section"`
	Priority   string   `yaml:"priority"`
	Categories []string `yaml:"categories"`
}

// AssetsConfig locates the media assets and the command that generates them
type AssetsConfig struct {
	Dir     string   `yaml:"dir"`
	Marker  string   `yaml:"marker"` // Relative to Dir; its presence means assets are provisioned
	Command []string `yaml:"command"`
}

// BuildConfig describes the external build step
type BuildConfig struct {
	OutputDir string   `yaml:"output_dir" env:"RELPACK_BUILD_DIR"`
	Command   []string `yaml:"command"`
	Skip      bool     `yaml:"skip" env:"RELPACK_SKIP_BUILD"`
}

// DebConfig contains Debian packaging options
type DebConfig struct {
	StagingDir       string   `yaml:"staging_dir"`
	Tool             string   `yaml:"tool"`
	LauncherSegments []string `yaml:"launcher_segments"`
	// Clean removes the whole staging root before staging instead of only
	// the payload and metadata directories
	Clean bool `yaml:"clean" env:"RELPACK_CLEAN_STAGING"`
}

// NSISConfig contains Windows installer options
type NSISConfig struct {
	StagingDir string   `yaml:"staging_dir"`
	Script     string   `yaml:"script"`
	OutputFile string   `yaml:"output_file"`
	InstallDir string   `yaml:"install_dir"`
	ToolPaths  []string `yaml:"tool_paths"` // Checked in order
}

// SigningConfig configures the detached artifact signature
type SigningConfig struct {
	KeyPath    string `yaml:"key_path" env:"RELPACK_GPG_KEY"`
	Passphrase string `yaml:"-" env:"RELPACK_GPG_PASSPHRASE"`
}
