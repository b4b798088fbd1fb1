package cli

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skywarr/relpack/internal/config"
	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/pipeline"
	"github.com/skywarr/relpack/internal/platform"
)

type packageOptions struct {
	configPath    string
	platform      string
	skipBuild     bool
	clean         bool
	gpgKey        string
	gpgPassphrase string
}

func (o *packageOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "Release config file (default "+config.DefaultConfigFilename+")")
	cmd.Flags().StringVar(&o.platform, "platform", "", "Target platform: linux, windows or unknown (default: host)")
	cmd.Flags().BoolVar(&o.skipBuild, "skip-build", false, "Package the existing build output tree")
	cmd.Flags().BoolVar(&o.clean, "clean", false, "Remove the whole staging root before staging")

	// GPG signing flags
	cmd.Flags().StringVarP(&o.gpgKey, "gpg-key", "k", "", "Path to GPG private key")
	cmd.Flags().StringVarP(&o.gpgPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase")
}

// apply lets flags win over the file and the environment
func (o *packageOptions) apply(cfg *models.ReleaseConfig) {
	if o.skipBuild {
		cfg.Build.Skip = true
	}
	if o.clean {
		cfg.Deb.Clean = true
	}
	if o.gpgKey != "" {
		cfg.Signing.KeyPath = o.gpgKey
	}
	if o.gpgPassphrase != "" {
		cfg.Signing.Passphrase = o.gpgPassphrase
	}
}

func runPackage(ctx context.Context, o *packageOptions) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.apply(cfg)

	var deps pipeline.Deps
	if o.platform != "" {
		p, err := platform.Parse(o.platform)
		if err != nil {
			return models.NewError(models.ErrInvalidConfig, "flags", err)
		}
		deps.Platform = &p
	}

	logrus.Debugf("Configuration: %+v", cfg.Product)

	_, err = pipeline.Run(ctx, cfg, deps)
	return err
}
