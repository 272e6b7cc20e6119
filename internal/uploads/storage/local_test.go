package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()

	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	content := []byte("fake image bytes")
	publicPath, err := store.Save(context.Background(), "projectImage", "birdhouse.png", "image/png", strings.NewReader(string(content)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(publicPath, "/uploads/projectImage-"), "got %q", publicPath)
	assert.True(t, strings.HasSuffix(publicPath, ".png"), "extension must be preserved, got %q", publicPath)

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(publicPath)))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestLocalStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
