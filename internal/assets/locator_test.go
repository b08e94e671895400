package assets

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
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestLocate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "space1", "abc", "test-image.jpg"))
	writeFile(t, filepath.Join(root, "space1", "def", "my_cool_image.png"))

	res := Locate(root, "test-image.jpg")
	path, ok := res.Path()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "space1", "abc", "test-image.jpg"), path)

	// Spaces in the export name are stored as underscores.
	res = Locate(root, "my cool image.png")
	path, ok = res.Path()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "space1", "def", "my_cool_image.png"), path)
}

func TestLocate_FirstMatchDepthFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "deep", "dup.jpg"))
	writeFile(t, filepath.Join(root, "b", "dup.jpg"))

	path, ok := Locate(root, "dup.jpg").Path()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a", "deep", "dup.jpg"), path)
}

func TestLocate_NotFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x", "other.jpg"))

	assert.False(t, Locate(root, "test-image.jpg").Found())
	assert.False(t, Locate(root, "").Found())
	assert.False(t, Locate(filepath.Join(root, "missing"), "other.jpg").Found())

	// Directories with the target name are not matches.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.jpg"), 0755))
	assert.False(t, Locate(root, "dir.jpg").Found())

	// Matching is verbatim.
	assert.False(t, Locate(root, "OTHER.jpg").Found())
}

func TestPublicPath(t *testing.T) {
	assert.Equal(t, "/img/orig/test-image.webp", PublicPath("/img", RenditionOrig, "test-image.jpg", "webp"))
	assert.Equal(t, "/img/card/test-image.webp", PublicPath("/img", RenditionCard, "test-image.jpg", "webp"))
	assert.Equal(t, "/img/post/test-image.webp", PublicPath("img", RenditionPost, "test-image.jpg", "webp"))
	assert.Equal(t, "test-image.webp", DerivedName("test-image.jpg", "webp"))
}
