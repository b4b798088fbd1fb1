package provision

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/skywarr/relpack/internal/executor"
	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/platform"
)

// ArtifactBuilder produces the build output tree
type ArtifactBuilder interface {
	Build(ctx context.Context) error
}

// CommandBuilder runs the configured build command
type CommandBuilder struct {
	cfg      models.BuildConfig
	platform platform.Platform
	runner   executor.Runner
}

// NewCommandBuilder creates a command-backed builder for the target platform
func NewCommandBuilder(cfg models.BuildConfig, p platform.Platform, runner executor.Runner) *CommandBuilder {
	return &CommandBuilder{cfg: cfg, platform: p, runner: runner}
}

// Build runs the build command unless skipping was requested
func (b *CommandBuilder) Build(ctx context.Context) error {
	if b.cfg.Skip {
		logrus.Infof("Skipping build, using existing %s", b.cfg.OutputDir)
		return nil
	}

	if len(b.cfg.Command) == 0 {
		return models.NewError(models.ErrInvalidConfig, "build", fmt.Errorf("build.command is empty"))
	}

	logrus.Infof("Building executable for %s...", b.platform)
	cmd := executor.Command{Name: b.cfg.Command[0], Args: b.cfg.Command[1:]}
	res, err := b.runner.Run(ctx, cmd)
	if err != nil {
		return &models.PackError{
			Type:   models.ErrBuild,
			Stage:  "build",
			Output: res.Output(),
			Err:    fmt.Errorf("%s: %w", cmd, err),
		}
	}

	logrus.Infof("Build complete! Executable is in the %s directory.", b.cfg.OutputDir)
	return nil
}
