package assets

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novelarcade/pkg/script"
)

func writePNG(t *testing.T, dir, rel string, w, h int) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	f, err := os.Create(full)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestCache_ImageMemoized(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "bg/classroom.png", 40, 20)
	c := New(dir)

	first, err := c.Image("bg/classroom.png")
	require.NoError(t, err)

	// windows separators and a leading slash normalize to the same key
	again, err := c.Image("\\bg\\classroom.png")
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestCache_ImageMissing(t *testing.T) {
	c := New(t.TempDir())
	_, err := c.Image("bg/nope.png")
	var miss *script.MissingAssetError
	require.ErrorAs(t, err, &miss)
	assert.Contains(t, miss.Path, "nope.png")
}

func TestCache_FitScreen(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "bg/rooftop.png", 40, 20)
	c := New(dir)

	img, op, err := c.FitScreen("bg/rooftop.png", 1280, 720)
	require.NoError(t, err)
	require.NotNil(t, img)
	require.NotNil(t, op)
	assert.Equal(t, 32.0, op.GeoM.Element(0, 0))
	assert.Equal(t, 36.0, op.GeoM.Element(1, 1))
}

func TestCache_FitScreenMissing(t *testing.T) {
	c := New(t.TempDir())
	_, _, err := c.FitScreen("bg/nope.png", 1280, 720)
	var miss *script.MissingAssetError
	assert.ErrorAs(t, err, &miss)
}
