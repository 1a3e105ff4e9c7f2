package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_CreatesParentsAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "out", "stock.svg")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_DirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0644))

	err := WriteFileAtomic(target, []byte("data"), 0644)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be removed on failure")
}

func TestNonEmptySize(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err := NonEmptySize(empty)
	assert.Error(t, err)

	_, err = NonEmptySize(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	full := filepath.Join(dir, "full")
	require.NoError(t, os.WriteFile(full, []byte("abc"), 0644))
	size, err := NonEmptySize(full)
	require.NoError(t, err)
	assert.EqualValues(t, 3, size)
}
