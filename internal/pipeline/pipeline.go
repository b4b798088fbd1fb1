// Package pipeline drives one packaging run from asset provisioning to the
// signed artifact.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skywarr/relpack/internal/backend"
	"github.com/skywarr/relpack/internal/backend/deb"
	"github.com/skywarr/relpack/internal/backend/nsis"
	"github.com/skywarr/relpack/internal/executor"
	"github.com/skywarr/relpack/internal/invoker"
	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/platform"
	"github.com/skywarr/relpack/internal/provision"
	"github.com/skywarr/relpack/internal/signer"
	"github.com/skywarr/relpack/internal/utils"
)

// Deps are the collaborators of a run. Zero values select the real
// implementations.
type Deps struct {
	Runner executor.Runner
	// Platform overrides host detection
	Platform *platform.Platform

	LookPath   func(string) (string, error)
	FileExists func(string) bool
	MaskFunc   invoker.MaskFunc

	Assets  provision.AssetProvisioner
	Builder provision.ArtifactBuilder
	Signer  signer.Signer
}

func (d *Deps) fill(cfg *models.ReleaseConfig, p platform.Platform) {
	if d.Runner == nil {
		d.Runner = executor.NewExecRunner()
	}
	if d.LookPath == nil {
		d.LookPath = executor.LookPath
	}
	if d.Assets == nil {
		d.Assets = provision.NewCommandAssets(cfg.Assets, d.Runner)
	}
	if d.Builder == nil {
		d.Builder = provision.NewCommandBuilder(cfg.Build, p, d.Runner)
	}
}

// Run executes the pipeline. Unknown platforms and missing packaging tools
// end the run early with a nil error and Report.Skipped set. The report is
// logged on every return, failures included.
func Run(ctx context.Context, cfg *models.ReleaseConfig, deps Deps) (*Report, error) {
	p := platform.Detect()
	if deps.Platform != nil {
		p = *deps.Platform
	}

	report := &Report{RunID: uuid.NewString(), Platform: p}
	fields := logrus.Fields{
		"run":      report.RunID,
		"platform": p.String(),
	}
	restore := withRunFields(fields)
	defer restore()

	log := logrus.WithFields(fields)
	defer report.Log(log)

	log.Infof("Detected platform: %s", p)

	deps.fill(cfg, p)

	if err := deps.Assets.Ensure(ctx); err != nil {
		return report, err
	}
	report.done(StageAssets)

	if err := deps.Builder.Build(ctx); err != nil {
		return report, err
	}
	report.done(StageBuild)

	b := newBackend(p, cfg, deps)
	if b == nil {
		log.Warnf("No installer support for platform: %s", p)
		report.skip(fmt.Sprintf("no installer support for platform %s", p))
		return report, nil
	}
	report.Backend = b.Name()

	if err := b.LocateTool(ctx); err != nil {
		if pe, ok := models.AsPackError(err); ok && !pe.Type.Fatal() {
			log.Warn(pe.Err)
			if pe.Remedy != "" {
				log.Warn(pe.Remedy)
			}
			report.skip(pe.Err.Error())
			return report, nil
		}
		return report, err
	}
	report.done(StageLocate)

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{StageStage, b.Stage},
		{StageManifest, b.WriteManifest},
		{StageNormal, b.Normalize},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := step.run(ctx); err != nil {
			return report, err
		}
		report.done(step.name)
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	res, err := b.Invoke(ctx)
	if err != nil {
		return report, err
	}
	report.Result = res
	report.done(StageInvoke)

	if cfg.Verify {
		if err := b.Verify(ctx, res.ArtifactPath); err != nil {
			return report, err
		}
		report.done(StageVerify)
	}

	if err := finish(cfg, deps.Signer, report, log); err != nil {
		return report, err
	}

	return report, nil
}

// newBackend picks the packaging backend for p, nil when there is none
func newBackend(p platform.Platform, cfg *models.ReleaseConfig, deps Deps) backend.Backend {
	opts := []invoker.Option{}
	if deps.MaskFunc != nil {
		opts = append(opts, invoker.WithMaskFunc(deps.MaskFunc))
	}
	inv := invoker.New(deps.Runner, opts...)

	switch p {
	case platform.Linux:
		return deb.NewBackend(cfg, inv, deps.LookPath)
	case platform.Windows:
		return nsis.NewBackend(cfg, inv, deps.FileExists)
	default:
		return nil
	}
}

// finish writes the checksum sidecar and signatures for the artifact
func finish(cfg *models.ReleaseConfig, s signer.Signer, report *Report, log *logrus.Entry) error {
	artifact := report.Result.ArtifactPath

	sum, err := utils.CalculateChecksums(artifact)
	if err != nil {
		return models.NewError(models.ErrVerify, StageChecksum, err)
	}
	report.Size = sum.Size

	if cfg.Checksum {
		path, err := utils.WriteChecksumFile(artifact, sum)
		if err != nil {
			return models.NewError(models.ErrManifestWrite, StageChecksum, err)
		}
		report.ChecksumPath = path
		report.done(StageChecksum)
	}

	if s == nil && cfg.Signing.KeyPath != "" {
		gpg, err := signer.NewGPGSigner(cfg.Signing.KeyPath, cfg.Signing.Passphrase)
		if err != nil {
			return models.NewError(models.ErrSigning, StageSign, fmt.Errorf("failed to initialize GPG signer: %w", err))
		}
		s = gpg
	}
	if s == nil {
		return nil
	}

	log.Infof("Signing with key %s", s.KeyID())
	sig, err := signer.SignFile(s, artifact)
	if err != nil {
		return err
	}
	report.SignaturePath = sig

	if report.ChecksumPath != "" {
		if _, err := signer.ClearsignFile(s, report.ChecksumPath); err != nil {
			return err
		}
	}
	report.done(StageSign)
	return nil
}
