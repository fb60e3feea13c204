package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.json"))
	touch(t, filepath.Join(root, "nested", "b.YAML"))
	touch(t, filepath.Join(root, "nested", "deeper", "c.hcl"))
	touch(t, filepath.Join(root, "nested", "notes.txt"))

	t.Run("single extension", func(t *testing.T) {
		files, err := FindFilesByExtension(root, ".json")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "a.json")}, files)
	})

	t.Run("several extensions, case-insensitive", func(t *testing.T) {
		files, err := FindFilesByExtension(root, ".json", ".yaml", ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "a.json"),
			filepath.Join(root, "nested", "b.YAML"),
			filepath.Join(root, "nested", "deeper", "c.hcl"),
		}, files)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindFilesByExtension(filepath.Join(root, "nope"), ".json")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("empty extension panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFilesByExtension(root, "") })
		assert.Panics(t, func() { _, _ = FindFilesByExtension(root) })
	})
}
