package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_CreatesFileWithMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`{"a":1}`), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileAtomic_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hostapd.conf")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	err := WriteFileAtomic("/nonexistent/dir/file", []byte("x"), 0o600)
	assert.Error(t, err)
}

func TestReadFileIfExists(t *testing.T) {
	data, err := ReadFileIfExists("/nonexistent/file")
	assert.NoError(t, err)
	assert.Nil(t, data)

	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	data, err = ReadFileIfExists(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
