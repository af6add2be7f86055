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

func TestLocalStore_Put(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(filepath.Join(dir, "uploads"), "/uploads/")
	require.NoError(t, err)

	ref, err := s.Put(context.Background(), "image-1.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/image-1.png", ref)

	b, err := os.ReadFile(filepath.Join(dir, "uploads", "image-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	entries, err := os.ReadDir(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestLocalStore_RejectsPaths(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, name := range []string{"", "../escape.png", "a/b.png"} {
		_, err := s.Put(context.Background(), name, "image/png", strings.NewReader("x"))
		assert.Error(t, err, name)
	}
}

func TestLocalStore_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Put(ctx, "image-2.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "image-2.png"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGCSStore_ObjectPath(t *testing.T) {
	s := NewGCSStore(nil, "bucket", "/products/")
	assert.Equal(t, "products/image-1.png", s.objectPath("image-1.png"))

	_, err := s.Put(context.Background(), "image-1.png", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}
