package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skywarr/relpack/internal/config"
	"github.com/skywarr/relpack/internal/models"
)

// WriteBuildTree lays out a build output tree under dir: the executable and
// one asset file
func WriteBuildTree(t testing.TB, dir, executable string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets", "images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, executable), []byte("\x7fELF"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "images", "menu_bg.jpg"), []byte("jpg"), 0644))
}

// ReleaseConfig returns the default release with every directory moved under
// root and a populated build output tree
func ReleaseConfig(t testing.TB, root string) *models.ReleaseConfig {
	t.Helper()

	cfg := config.Default()
	cfg.Assets.Dir = filepath.Join(root, "assets")
	cfg.Build.OutputDir = filepath.Join(root, "dist", "SkyWarr")
	cfg.Deb.StagingDir = filepath.Join(root, "deb_dist")
	cfg.NSIS.StagingDir = filepath.Join(root, "win_dist")
	cfg.NSIS.Script = filepath.Join(root, "installer.nsi")
	require.NoError(t, config.Validate(cfg))

	WriteBuildTree(t, cfg.Build.OutputDir, cfg.Product.Name)
	return cfg
}
