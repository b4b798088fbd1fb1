package executor

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkShellAvailable skips tests that need a POSIX shell
func checkShellAvailable(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell tests are not run on Windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("No shell available in test environment")
	}
}

func TestExecRunnerSuccess(t *testing.T) {
	checkShellAvailable(t)

	res, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo test-exec-cmd; echo warn 1>&2"},
	})
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
	require.Contains(t, res.Stdout, "test-exec-cmd")
	require.Contains(t, res.Stderr, "warn")
	require.Contains(t, res.Output(), "test-exec-cmd")
	require.Contains(t, res.Output(), "warn")
}

func TestExecRunnerExitFailure(t *testing.T) {
	checkShellAvailable(t)

	res, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo 'dpkg-deb: error: bad permissions' 1>&2; exit 2"},
	})
	require.Error(t, err)
	require.True(t, IsExitFailure(err))
	require.Equal(t, 2, res.ExitCode)
	require.Contains(t, res.Output(), "bad permissions")
}

func TestExecRunnerDirAndEnv(t *testing.T) {
	checkShellAvailable(t)

	dir := t.TempDir()
	res, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "pwd; echo $RELPACK_TEST"},
		Dir:  dir,
		Env:  []string{"RELPACK_TEST=marker"},
	})
	require.NoError(t, err)
	require.Contains(t, res.Stdout, "marker")
	require.NotEmpty(t, strings.TrimSpace(strings.Split(res.Stdout, "\n")[0]))
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), Command{Name: "relpack-no-such-binary"})
	require.Error(t, err)
	require.False(t, IsExitFailure(err))
}

func TestRunnerFunc(t *testing.T) {
	var seen Command
	r := RunnerFunc(func(_ context.Context, cmd Command) (*Result, error) {
		seen = cmd
		return &Result{Stdout: "ok"}, nil
	})

	res, err := r.Run(context.Background(), Command{Name: "dpkg-deb", Args: []string{"--build", "a", "b"}})
	require.NoError(t, err)
	require.Equal(t, "ok", res.Output())
	require.Equal(t, "dpkg-deb --build a b", seen.String())
}
