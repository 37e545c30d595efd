package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "media")

	m, err := NewManager(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, m.Dir())
}

func TestSaveAndExists(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	require.False(t, m.Exists("image_1.jpg"))

	err = m.Save(strings.NewReader("image-bytes"), "image_1.jpg")
	require.NoError(t, err)

	assert.True(t, m.Exists("image_1.jpg"))

	data, err := os.ReadFile(filepath.Join(m.Dir(), "image_1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, m.Save(strings.NewReader("x"), "image_2.jpg"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"))
	}
}

func TestNewManagerIndexesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image_7.jpg"), []byte("old"), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	assert.True(t, m.Exists("image_7.jpg"))
	assert.Equal(t, 1, m.Count())
}
