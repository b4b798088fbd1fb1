package pipeline

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/skywarr/relpack/internal/models"
	"github.com/skywarr/relpack/internal/platform"
)

// Stage names recorded in Report.Completed
const (
	StageAssets   = "assets"
	StageBuild    = "build"
	StageLocate   = "locate"
	StageStage    = "stage"
	StageManifest = "manifest"
	StageNormal   = "normalize"
	StageInvoke   = "invoke"
	StageVerify   = "verify"
	StageChecksum = "checksum"
	StageSign     = "sign"
)

// Report summarizes a packaging run. It is returned even when the run fails.
type Report struct {
	RunID    string
	Platform platform.Platform
	Backend  string

	// Completed lists the stages that finished, in order
	Completed []string

	Result        *models.PackagingResult
	Size          int64
	ChecksumPath  string
	SignaturePath string

	// Skipped is set when no package was produced for a non-fatal reason
	Skipped    bool
	SkipReason string
}

func (r *Report) done(stage string) {
	r.Completed = append(r.Completed, stage)
}

func (r *Report) skip(reason string) {
	r.Skipped = true
	r.SkipReason = reason
}

// Log writes the report summary to entry
func (r *Report) Log(entry *logrus.Entry) {
	entry.Infof("Stages completed: %s", strings.Join(r.Completed, ", "))

	if r.Skipped {
		entry.Warnf("No package produced: %s", r.SkipReason)
		return
	}
	if r.Result == nil {
		return
	}

	entry.Infof("Package: %s (%s)", r.Result.ArtifactPath, humanize.Bytes(uint64(r.Size)))
	if r.Result.Retried {
		entry.Infof("Packaging succeeded on attempt %d", r.Result.Attempts)
	}
	if r.ChecksumPath != "" {
		entry.Infof("Checksum: %s", r.ChecksumPath)
	}
	if r.SignaturePath != "" {
		entry.Infof("Signature: %s", r.SignaturePath)
	}
}
