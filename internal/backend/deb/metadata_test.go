package deb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skywarr/relpack/internal/config"
	"github.com/skywarr/relpack/internal/models"
)

func testManifest() models.PackageManifest {
	m := models.NewManifest(config.Default())
	m.InstallDir = "/usr/share/skywarr"
	return m
}

func TestGenerateControlFile(t *testing.T) {
	got := string(GenerateControlFile(testManifest()))

	want := "Package: skywarr\n" +
		"Version: 1.0.0\n" +
		"Section: games\n" +
		"Priority: optional\n" +
		"Architecture: amd64\n" +
		"Maintainer: SkyWarr Developer <developer@example.com>\n" +
		"Description: Space shooter game with single and multiplayer modes\n"
	require.Equal(t, want, got)
}

func TestControlFileRoundTripsThroughParser(t *testing.T) {
	m := testManifest()

	ctrl, err := ParseControl(GenerateControlFile(m))
	require.NoError(t, err)
	require.Equal(t, controlFields, ctrl.Order)
	require.Equal(t, m.Maintainer, ctrl.Get("Maintainer"))
}

func TestGenerateLauncher(t *testing.T) {
	got := string(GenerateLauncher(testManifest()))
	require.Equal(t, "#!/bin/bash\ncd /usr/share/skywarr || exit 1\nexec ./SkyWarr \"$@\"\n", got)
}

func TestGenerateLauncherQuotesInstallDir(t *testing.T) {
	m := testManifest()
	m.InstallDir = "/opt/it's here"

	got := string(GenerateLauncher(m))
	require.Contains(t, got, `cd '/opt/it'\''s here' || exit 1`)
}

func TestGenerateDesktopEntry(t *testing.T) {
	got := string(GenerateDesktopEntry(testManifest()))

	want := "[Desktop Entry]\n" +
		"Name=Sky Warr\n" +
		"Comment=Space shooter game\n" +
		"Exec=skywarr\n" +
		"Terminal=false\n" +
		"Type=Application\n" +
		"Categories=Game;ArcadeGame;\n"
	require.Equal(t, want, got)
}

func TestCategoriesSkipsBlanks(t *testing.T) {
	require.Equal(t, "Game;", categories([]string{" Game ", ""}))
	require.Empty(t, categories(nil))
}
