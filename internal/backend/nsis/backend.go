// Package nsis builds Windows installers with makensis.
package nsis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/skywarr/relpack/internal/backend"
	"github.com/skywarr/relpack/internal/invoker"
	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/platform"
	"github.com/skywarr/relpack/internal/scanner"
)

const (
	// DownloadURL is where NSIS can be obtained
	DownloadURL = "https://nsis.sourceforge.io/Download"

	// Remedy is printed when makensis is missing or fails
	Remedy = "Make sure NSIS is installed: " + DownloadURL
)

// Backend implements backend.Backend for NSIS installers
type Backend struct {
	cfg      *models.ReleaseConfig
	manifest models.PackageManifest
	invoker  *invoker.Invoker
	exists   func(string) bool
	toolPath string

	stagedRoot string
	script     string
	artifact   string
}

// NewBackend creates an NSIS backend. exists reports whether a candidate
// makensis path is present; nil uses the filesystem.
func NewBackend(cfg *models.ReleaseConfig, inv *invoker.Invoker, exists func(string) bool) *Backend {
	if exists == nil {
		exists = fileExists
	}

	m := models.NewManifest(cfg)
	m.Executable = platform.Windows.ExecutableName(cfg.Product.Name)
	m.InstallDir = cfg.NSIS.InstallDir

	return &Backend{
		cfg:        cfg,
		manifest:   m,
		invoker:    inv,
		exists:     exists,
		stagedRoot: filepath.Join(cfg.NSIS.StagingDir, cfg.Product.Name),
		script:     cfg.NSIS.Script,
		artifact:   filepath.Join(filepath.Dir(cfg.NSIS.Script), cfg.NSIS.OutputFile),
	}
}

var _ backend.Backend = (*Backend)(nil)

// Name returns the packaging format
func (b *Backend) Name() string {
	return "nsis"
}

// StagedRoot returns the directory the installer packs
func (b *Backend) StagedRoot() string {
	return b.stagedRoot
}

// ArtifactPath returns where makensis writes the installer
func (b *Backend) ArtifactPath() string {
	return b.artifact
}

// LocateTool checks the configured makensis locations in order
func (b *Backend) LocateTool(_ context.Context) error {
	for _, candidate := range b.cfg.NSIS.ToolPaths {
		if b.exists(candidate) {
			logrus.Debugf("Using %s", candidate)
			b.toolPath = candidate
			return nil
		}
	}

	return &models.PackError{
		Type:   models.ErrToolNotFound,
		Stage:  "locate",
		Err:    fmt.Errorf("NSIS not found in %s", strings.Join(b.cfg.NSIS.ToolPaths, ", ")),
		Remedy: fmt.Sprintf("Please install it from %s. After installing, run this command again.", DownloadURL),
	}
}

// Stage copies the build output tree into the staging directory
func (b *Backend) Stage(ctx context.Context) error {
	logrus.Info("Creating Windows installer...")

	buildDir := b.cfg.Build.OutputDir
	if _, err := backend.CheckBuildTree(ctx, buildDir, b.manifest.Executable); err != nil {
		return err
	}

	return backend.CopyPayload(ctx, buildDir, b.stagedRoot)
}

// WriteManifest renders the installer script
func (b *Backend) WriteManifest(_ context.Context) error {
	source, err := filepath.Rel(filepath.Dir(b.script), b.stagedRoot)
	if err != nil {
		source, err = filepath.Abs(b.stagedRoot)
		if err != nil {
			return models.NewError(models.ErrManifestWrite, "manifest", err)
		}
	}

	data, err := GenerateScript(b.manifest, source, b.cfg.NSIS.OutputFile)
	if err != nil {
		return models.NewError(models.ErrManifestWrite, "manifest", fmt.Errorf("render %s: %w", b.script, err))
	}

	return backend.WriteManifestFile(b.script, data, 0644)
}

// Normalize is a no-op: NSIS does not carry POSIX modes
func (b *Backend) Normalize(_ context.Context) error {
	return nil
}

// Invoke compiles the installer script
func (b *Backend) Invoke(ctx context.Context) (*models.PackagingResult, error) {
	if err := backend.RemoveArtifact(b.artifact); err != nil {
		return nil, err
	}

	tool := b.toolPath
	if tool == "" {
		tool = "makensis"
	}

	res, err := b.invoker.Invoke(ctx, invoker.Request{
		Tool:         tool,
		Args:         []string{b.script},
		ArtifactPath: b.artifact,
	})
	if err != nil {
		if pe, ok := models.AsPackError(err); ok && pe.Remedy == "" {
			pe.Remedy = Remedy
		}
		return nil, err
	}

	logrus.Infof("Windows installer created: %s", b.artifact)
	return res, nil
}

// Verify checks that the artifact is a Windows executable
func (b *Backend) Verify(_ context.Context, artifact string) error {
	kind, err := scanner.DetectArtifactType(artifact)
	if err != nil {
		return models.NewError(models.ErrVerify, "verify", err)
	}
	if kind != scanner.TypePE {
		return models.NewError(models.ErrVerify, "verify", fmt.Errorf("%s is not a Windows executable", artifact))
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
