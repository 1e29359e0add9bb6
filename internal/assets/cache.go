// Package assets loads and memoizes decoded images. The cache is populated
// lazily and never evicted; the working set is bounded by one game's asset
// directory. Single-threaded use only, like everything else in the engine.
package assets

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/hajimehoshi/ebiten/v2"

	"novelarcade/pkg/script"
)

type Cache struct {
	dir    string
	images map[string]*ebiten.Image
}

func New(dir string) *Cache {
	return &Cache{
		dir:    dir,
		images: make(map[string]*ebiten.Image),
	}
}

// Image returns the decoded image for a path relative to the assets
// directory. A file that does not exist yields *script.MissingAssetError;
// the caller decides whether that is fatal (background) or a warning
// (sprite).
func (c *Cache) Image(rel string) (*ebiten.Image, error) {
	key := strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "/")
	if img, ok := c.images[key]; ok {
		return img, nil
	}

	full := filepath.Join(c.dir, filepath.FromSlash(key))
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &script.MissingAssetError{Path: full}
		}
		return nil, fmt.Errorf("open %s: %w", full, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", full, err)
	}

	img := ebiten.NewImageFromImage(src)
	c.images[key] = img
	return img, nil
}

// FitScreen returns the image together with draw options that stretch it to
// cover a w by h screen. Backgrounds and the title cover both draw this way.
func (c *Cache) FitScreen(rel string, w, h int) (*ebiten.Image, *ebiten.DrawImageOptions, error) {
	img, err := c.Image(rel)
	if err != nil {
		return nil, nil, err
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	op.Filter = ebiten.FilterLinear
	return img, op, nil
}
