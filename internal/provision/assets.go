// Package provision runs the steps that produce the build output tree:
// generating media assets and invoking the external build.
package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/skywarr/relpack/internal/executor"
	"github.com/skywarr/relpack/internal/models"
)

// AssetProvisioner makes sure the media assets exist
type AssetProvisioner interface {
	Ensure(ctx context.Context) error
}

// CommandAssets generates assets with an external command when the marker
// file is absent
type CommandAssets struct {
	cfg    models.AssetsConfig
	runner executor.Runner
}

// NewCommandAssets creates a command-backed asset provisioner
func NewCommandAssets(cfg models.AssetsConfig, runner executor.Runner) *CommandAssets {
	return &CommandAssets{cfg: cfg, runner: runner}
}

// MarkerPath returns the file whose presence means assets are provisioned
func (a *CommandAssets) MarkerPath() string {
	return filepath.Join(a.cfg.Dir, a.cfg.Marker)
}

// Ensure is a no-op when the marker exists; otherwise it runs the generator
// and checks the marker again
func (a *CommandAssets) Ensure(ctx context.Context) error {
	marker := a.MarkerPath()
	if present(marker) {
		logrus.Debugf("Assets present: %s", marker)
		return nil
	}

	if len(a.cfg.Command) == 0 {
		return &models.PackError{
			Type:   models.ErrPrecondition,
			Stage:  "assets",
			Err:    fmt.Errorf("asset marker %s is missing and no asset command is configured", marker),
			Remedy: "set assets.command or provide the assets directory",
		}
	}

	logrus.Info("Creating game assets...")
	cmd := executor.Command{Name: a.cfg.Command[0], Args: a.cfg.Command[1:]}
	res, err := a.runner.Run(ctx, cmd)
	if err != nil {
		return &models.PackError{
			Type:   models.ErrBuild,
			Stage:  "assets",
			Output: res.Output(),
			Err:    fmt.Errorf("asset generation failed: %w", err),
		}
	}

	if !present(marker) {
		return models.NewError(models.ErrPrecondition, "assets",
			fmt.Errorf("%s finished but %s is still missing", cmd, marker))
	}
	return nil
}

func present(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
