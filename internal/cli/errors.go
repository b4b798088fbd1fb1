package cli

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/skywarr/relpack/internal/models"
)

// ReportError logs err with the tool diagnostic and remedy it carries
func ReportError(err error) {
	pe, ok := models.AsPackError(err)
	if !ok {
		logrus.Error(err)
		return
	}

	logrus.WithField("stage", pe.Stage).Errorf("%s error: %v", pe.Type, pe.Err)
	if out := strings.TrimSpace(pe.Output); out != "" {
		for _, line := range strings.Split(out, "\n") {
			logrus.Error(line)
		}
	}
	if pe.Remedy != "" {
		logrus.Info(pe.Remedy)
	}
}
