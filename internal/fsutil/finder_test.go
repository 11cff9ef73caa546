package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("# test"), 0644))
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "b", "a.hcl")
	b := filepath.Join(root, "a.hcl")
	other := filepath.Join(root, "notes.txt")
	single := filepath.Join(t.TempDir(), "single.grid")
	writeFile(t, a)
	writeFile(t, b)
	writeFile(t, other)
	writeFile(t, single)

	files, err := CollectFiles([]string{root, b, single}, ".hcl")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{b, a, single}, files)
	assert.IsIncreasing(t, files)
}

func TestCollectFiles_MissingPath(t *testing.T) {
	_, err := CollectFiles([]string{filepath.Join(t.TempDir(), "nope")}, ".hcl")
	assert.ErrorContains(t, err, "error accessing path")
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}
