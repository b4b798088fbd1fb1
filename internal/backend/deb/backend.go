package deb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/skywarr/relpack/internal/backend"
	"github.com/skywarr/relpack/internal/invoker"
	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/permissions"
	"github.com/skywarr/relpack/internal/scanner"
	"github.com/skywarr/relpack/internal/utils"
)

// Remedy is printed when dpkg-deb is missing or fails
const Remedy = "You may need to install dpkg-deb: sudo apt-get install dpkg-dev"

// Layout holds the paths of a Debian staging tree
type Layout struct {
	Root     string // <staging>/<package>
	Bin      string // usr/bin
	Apps     string // usr/share/applications
	Payload  string // usr/share/<package>
	Metadata string // DEBIAN
	Artifact string // <staging>/<package>_<version>_<arch>.deb
}

// NewLayout computes the staging layout for a manifest
func NewLayout(stagingDir string, m models.PackageManifest) Layout {
	root := filepath.Join(stagingDir, m.Name)
	return Layout{
		Root:     root,
		Bin:      filepath.Join(root, "usr", "bin"),
		Apps:     filepath.Join(root, "usr", "share", "applications"),
		Payload:  filepath.Join(root, "usr", "share", m.Name),
		Metadata: filepath.Join(root, "DEBIAN"),
		Artifact: filepath.Join(stagingDir, m.DebFilename()),
	}
}

// Backend implements backend.Backend for Debian packages built with dpkg-deb
type Backend struct {
	cfg      *models.ReleaseConfig
	manifest models.PackageManifest
	layout   Layout
	policy   permissions.Policy
	invoker  *invoker.Invoker
	lookPath func(string) (string, error)
	toolPath string
}

// NewBackend creates a Debian backend
func NewBackend(cfg *models.ReleaseConfig, inv *invoker.Invoker, lookPath func(string) (string, error)) *Backend {
	m := models.NewManifest(cfg)
	m.InstallDir = "/usr/share/" + m.Name

	policy := permissions.DefaultPolicy()
	policy.LauncherSegments = cfg.Deb.LauncherSegments

	return &Backend{
		cfg:      cfg,
		manifest: m,
		layout:   NewLayout(cfg.Deb.StagingDir, m),
		policy:   policy,
		invoker:  inv,
		lookPath: lookPath,
	}
}

var _ backend.Backend = (*Backend)(nil)

// Name returns the packaging format
func (b *Backend) Name() string {
	return "deb"
}

// Layout returns the staging layout
func (b *Backend) Layout() Layout {
	return b.layout
}

// Manifest returns the manifest rendered by WriteManifest
func (b *Backend) Manifest() models.PackageManifest {
	return b.manifest
}

// LocateTool resolves dpkg-deb on PATH
func (b *Backend) LocateTool(_ context.Context) error {
	path, err := b.lookPath(b.cfg.Deb.Tool)
	if err != nil {
		return &models.PackError{
			Type:   models.ErrToolNotFound,
			Stage:  "locate",
			Err:    fmt.Errorf("%s not found: %w", b.cfg.Deb.Tool, err),
			Remedy: Remedy,
		}
	}

	logrus.Debugf("Using %s", path)
	b.toolPath = path
	return nil
}

// Stage creates the directory skeleton and copies the build output tree into
// usr/share/<package>
func (b *Backend) Stage(ctx context.Context) error {
	logrus.Info("Creating Linux installer...")

	buildDir := b.cfg.Build.OutputDir
	if _, err := backend.CheckBuildTree(ctx, buildDir, b.manifest.Executable); err != nil {
		return err
	}

	if b.cfg.Deb.Clean {
		logrus.Infof("Cleaning staging directory: %s", b.layout.Root)
		if err := os.RemoveAll(b.layout.Root); err != nil {
			return models.NewError(models.ErrCopy, "stage", fmt.Errorf("clean %s: %w", b.layout.Root, err))
		}
	}

	for _, dir := range []string{b.layout.Bin, b.layout.Apps} {
		if err := utils.EnsureDir(dir); err != nil {
			return models.NewError(models.ErrCopy, "stage", err)
		}
	}

	return backend.CopyPayload(ctx, buildDir, b.layout.Payload)
}

// WriteManifest writes the launcher, the desktop entry and a freshly
// recreated DEBIAN directory holding the control record
func (b *Backend) WriteManifest(_ context.Context) error {
	m := b.manifest

	launcher := filepath.Join(b.layout.Bin, m.Name)
	if err := backend.WriteManifestFile(launcher, GenerateLauncher(m), 0755); err != nil {
		return err
	}

	desktop := filepath.Join(b.layout.Apps, m.Name+".desktop")
	if err := backend.WriteManifestFile(desktop, GenerateDesktopEntry(m), 0644); err != nil {
		return err
	}

	// Stale metadata must never reach a new package
	if _, err := os.Stat(b.layout.Metadata); err == nil {
		logrus.Infof("Removing existing DEBIAN directory: %s", b.layout.Metadata)
	}
	if err := utils.RecreateDir(b.layout.Metadata, 0755); err != nil {
		return models.NewError(models.ErrManifestWrite, "manifest", fmt.Errorf("recreate %s: %w", b.layout.Metadata, err))
	}

	control := filepath.Join(b.layout.Metadata, "control")
	return backend.WriteManifestFile(control, GenerateControlFile(m), 0644)
}

// Normalize applies the permission policy to the whole staged tree,
// DEBIAN included
func (b *Backend) Normalize(ctx context.Context) error {
	sum, err := permissions.Normalize(ctx, b.layout.Root, b.policy)
	if err != nil {
		return models.NewError(models.ErrPrecondition, "normalize", err)
	}

	if sum.Skipped > 0 {
		logrus.Warnf("Skipped %d entries while fixing permissions", sum.Skipped)
	}

	if info, err := os.Stat(b.layout.Metadata); err == nil {
		logrus.Infof("DEBIAN directory permissions: %#o", info.Mode().Perm())
	}

	b.checkPayloadExecutable()
	return nil
}

// checkPayloadExecutable warns when the launcher's exec target lost its
// execute bits to the permission policy
func (b *Backend) checkPayloadExecutable() {
	if runtime.GOOS == "windows" {
		return
	}

	exe := filepath.Join(b.layout.Payload, b.manifest.Executable)
	info, err := os.Stat(exe)
	if err != nil || info.Mode().Perm()&0o111 != 0 {
		return
	}

	rel := filepath.ToSlash(strings.TrimPrefix(b.manifest.InstallDir, "/"))
	logrus.Warnf("%s has mode %#o and the launcher cannot exec it; add %q to deb.launcher_segments to mark it executable",
		exe, info.Mode().Perm(), rel)
}

// Invoke runs dpkg-deb --build against the staged root
func (b *Backend) Invoke(ctx context.Context) (*models.PackagingResult, error) {
	logrus.Info("Building .deb package...")

	if err := backend.RemoveArtifact(b.layout.Artifact); err != nil {
		return nil, err
	}

	tool := b.toolPath
	if tool == "" {
		tool = b.cfg.Deb.Tool
	}

	res, err := b.invoker.Invoke(ctx, invoker.Request{
		Tool:         tool,
		Args:         []string{"--build", b.layout.Root, b.layout.Artifact},
		ArtifactPath: b.layout.Artifact,
	})
	if err != nil {
		if pe, ok := models.AsPackError(err); ok && pe.Remedy == "" {
			pe.Remedy = Remedy
		}
		return nil, err
	}

	logrus.Infof("Linux .deb package created in %s", filepath.Dir(b.layout.Artifact))
	return res, nil
}

// Verify reads the control record back out of the artifact and compares it
// with the manifest
func (b *Backend) Verify(_ context.Context, artifact string) error {
	kind, err := scanner.DetectArtifactType(artifact)
	if err != nil {
		return models.NewError(models.ErrVerify, "verify", err)
	}
	if kind != scanner.TypeDeb {
		return models.NewError(models.ErrVerify, "verify", fmt.Errorf("%s is not a Debian package", artifact))
	}

	ctrl, err := ReadControl(artifact)
	if err != nil {
		return models.NewError(models.ErrVerify, "verify", err)
	}

	want := map[string]string{
		"Package":      b.manifest.Name,
		"Version":      b.manifest.Version,
		"Architecture": b.manifest.Architecture,
	}
	for _, key := range controlFields {
		expected, ok := want[key]
		if !ok {
			continue
		}
		if got := ctrl.Get(key); got != expected {
			return models.NewError(models.ErrVerify, "verify",
				fmt.Errorf("%s: control field %s is %q, expected %q", artifact, key, got, expected))
		}
	}

	logrus.Infof("Verified %s (%s %s %s)", filepath.Base(artifact), b.manifest.Name, b.manifest.Version, b.manifest.Architecture)
	return nil
}
