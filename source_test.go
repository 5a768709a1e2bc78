package capgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxtools/capgen/internal/testutil"
)

func TestDirTreeNonExistentPath(t *testing.T) {
	_, err := DirTree("/this/path/does/not/exist/at/all")
	assert.Error(t, err)
}

func TestDirTreeNotADirectory(t *testing.T) {
	_, err := DirTree("testdata/states/00_states.txt")
	assert.Error(t, err)
}

func TestMustDirTreePanicsOnError(t *testing.T) {
	assert.Panics(t, func() { MustDirTree("/this/path/does/not/exist") })
}

func TestDirTreeListFiles(t *testing.T) {
	src := MustDirTree("testdata/states")
	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata/states", "00_states.txt"),
		filepath.Join("testdata/states", "broken.txt"),
		filepath.Join("testdata/states", "sub", "10_more.state"),
	}, files)
}

func TestDirTreeCustomExtensions(t *testing.T) {
	src := MustDirTree("testdata/states", WithExtensions(".STATE"))
	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata/states", "sub", "10_more.state")}, files)
}

func TestDirTreeWritePreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	src := MustDirTree(dir)
	require.NoError(t, src.WriteFile(path, []byte("new")))

	data, err := src.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMemorySource(t *testing.T) {
	src := Memory(map[string]string{
		"b.txt":    "b = 1",
		"a.script": "a = 1",
		"c.md":     "ignored",
	})

	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.script", "b.txt"}, files)

	_, err = src.ReadFile("missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, src.WriteFile("b.txt", []byte("b = 2")))
	assert.Equal(t, "b = 2", src.Files()["b.txt"])
}

func TestMemorySourceNilMap(t *testing.T) {
	src := Memory(nil)
	require.NoError(t, src.WriteFile("new.txt", []byte("x = 1")))
	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"new.txt"}, files)
}

func TestMemoryFromFixtureTree(t *testing.T) {
	src := Memory(testutil.LoadTree(t, "testdata/states"))
	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"00_states.txt", "broken.txt", "sub/10_more.state"}, files)
}
