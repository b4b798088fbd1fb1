package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/scanner"
	"github.com/skywarr/relpack/internal/utils"
)

// Backend turns a build output tree into one platform's native package.
// The pipeline calls the methods in declaration order and stops at the first error.
type Backend interface {
	// Name returns the packaging format, e.g. "deb"
	Name() string

	// LocateTool resolves the external packaging tool.
	// It returns an ErrToolNotFound PackError with a remedy when absent.
	LocateTool(ctx context.Context) error

	// Stage materialises the staging tree from the build output tree
	Stage(ctx context.Context) error

	// WriteManifest writes the control record or installer script
	WriteManifest(ctx context.Context) error

	// Normalize enforces the permission policy on the staged tree
	Normalize(ctx context.Context) error

	// Invoke runs the packaging tool against the staged tree
	Invoke(ctx context.Context) (*models.PackagingResult, error)

	// Verify checks that the produced artifact matches the manifest
	Verify(ctx context.Context, artifact string) error
}

// Sidecars are the suffixes of files published next to an artifact
var Sidecars = []string{".sha256", ".sha256.asc", ".asc"}

// RemoveArtifact deletes a previous artifact and its sidecars so nothing
// from an earlier run sits next to the new one
func RemoveArtifact(path string) error {
	for _, p := range append([]string{path}, sidecarPaths(path)...) {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return models.NewError(models.ErrPackaging, "invoke", fmt.Errorf("remove stale %s: %w", p, err))
		}
	}
	return nil
}

func sidecarPaths(path string) []string {
	paths := make([]string, 0, len(Sidecars))
	for _, suffix := range Sidecars {
		paths = append(paths, path+suffix)
	}
	return paths
}

// CheckBuildTree enforces the build output tree precondition: dir must be a
// non-empty directory containing the executable
func CheckBuildTree(ctx context.Context, dir, executable string) (*scanner.TreeStats, error) {
	stats, err := scanner.ScanTree(ctx, dir)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &models.PackError{
			Type:   models.ErrPrecondition,
			Stage:  "stage",
			Err:    fmt.Errorf("build output tree %s is unavailable: %w", dir, err),
			Remedy: "run the build first or check build.output_dir",
		}
	}

	if stats.Empty() {
		return nil, &models.PackError{
			Type:   models.ErrPrecondition,
			Stage:  "stage",
			Err:    fmt.Errorf("build output tree %s is empty", dir),
			Remedy: "run the build first or check build.output_dir",
		}
	}

	exe := filepath.Join(dir, executable)
	if info, err := os.Stat(exe); err != nil || info.IsDir() {
		return nil, &models.PackError{
			Type:  models.ErrPrecondition,
			Stage: "stage",
			Err:   fmt.Errorf("executable %s not found in build output tree", exe),
		}
	}

	logrus.Infof("Build output tree %s: %d files in %d directories", dir, stats.Files, stats.Dirs)
	return stats, nil
}

// CopyPayload replaces dst with a fresh copy of src
func CopyPayload(ctx context.Context, src, dst string) error {
	logrus.Infof("Copying files from %s to %s", src, dst)

	if _, err := os.Stat(dst); err == nil {
		logrus.Infof("Removing existing directory: %s", dst)
	}

	if err := utils.RecreateDir(dst, 0755); err != nil {
		return models.NewError(models.ErrCopy, "stage", fmt.Errorf("prepare %s: %w", dst, err))
	}

	if err := utils.CopyTree(ctx, src, dst); err != nil {
		return models.NewError(models.ErrCopy, "stage", fmt.Errorf("copy %s to %s: %w", src, dst, err))
	}

	return nil
}

// WriteManifestFile writes one metadata file atomically, classifying failures
// as ErrManifestWrite
func WriteManifestFile(path string, data []byte, perm os.FileMode) error {
	logrus.Debugf("Writing %s", path)

	if err := utils.WriteFileAtomic(path, data, perm); err != nil {
		return models.NewError(models.ErrManifestWrite, "manifest", fmt.Errorf("write %s: %w", path, err))
	}
	return nil
}
