package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_CreatesRelativeDirectoryInCWD(t *testing.T) {
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	defer chdir(t, tmp)()

	got, err := EnsureDir("downloads")
	require.NoError(t, err)

	want := filepath.Join(tmp, "downloads")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureDir_AbsoluteAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, first)

	second, err := EnsureDir(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("downloads", []byte("x"), 0o660))

	_, err := EnsureDir("downloads")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"alpha_README.md":       "alpha_README.md",
		"../../etc/passwd":      "passwd",
		`..\..\windows\win.ini`: "win.ini",
		"":                      "README.md",
		"..":                    "README.md",
		"/":                     "README.md",
	}
	for in, want := range cases {
		require.Equal(t, want, SafeName(in), in)
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()

	p := UniquePath(dir, "README.md")
	require.Equal(t, filepath.Join(dir, "README.md"), p)
	require.NoError(t, os.WriteFile(p, nil, 0o600))

	p = UniquePath(dir, "README.md")
	require.Equal(t, filepath.Join(dir, "README-1.md"), p)
	require.NoError(t, os.WriteFile(p, nil, 0o600))

	require.Equal(t, filepath.Join(dir, "README-2.md"), UniquePath(dir, "README.md"))
}
