// Package resample scales the viewer's source image and memoises the result
// per zoom percentage.
package resample

import (
	"fmt"
	"image"
	"math"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	xdraw "golang.org/x/image/draw"
)

// DefaultCapacity is the number of zoom levels kept when no size is given.
const DefaultCapacity = 16

// Key returns the cache key for zoom: the zoom as a whole percentage.
func Key(zoom float64) int {
	return int(math.Round(zoom * 100))
}

// Resize scales src to w by h using interp.
func Resize(src image.Image, w, h int, interp xdraw.Interpolator) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	interp.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Filter maps a configuration name to an interpolator. Nearest neighbour is
// deliberately absent.
func Filter(name string) (xdraw.Interpolator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "catmullrom", "catmull-rom":
		return xdraw.CatmullRom, nil
	case "bilinear":
		return xdraw.BiLinear, nil
	case "approxbilinear":
		return xdraw.ApproxBiLinear, nil
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}

// Cache resamples one source image and keeps the most recently used
// results keyed by zoom percentage.
type Cache struct {
	src    image.Image
	interp xdraw.Interpolator
	lru    *lru.Cache[int, *image.RGBA]
}

// New returns a Cache over src holding at most capacity bitmaps. A nil
// interp selects Catmull-Rom.
func New(src image.Image, capacity int, interp xdraw.Interpolator) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if interp == nil {
		interp = xdraw.CatmullRom
	}
	l, err := lru.New[int, *image.RGBA](capacity)
	if err != nil {
		return nil, fmt.Errorf("resample cache: %w", err)
	}
	return &Cache{src: src, interp: interp, lru: l}, nil
}

// Resample returns src scaled by zoom to round(width*zoom) by
// round(height*zoom). Zooms that round to the same percentage share one
// entry. A hit whose bitmap size differs from the size this zoom needs is
// resampled and replaces the entry. A zoom producing an empty image
// returns nil.
func (c *Cache) Resample(zoom float64) image.Image {
	b := c.src.Bounds()
	w := int(math.Round(float64(b.Dx()) * zoom))
	h := int(math.Round(float64(b.Dy()) * zoom))
	if w <= 0 || h <= 0 {
		return nil
	}
	key := Key(zoom)
	if img, ok := c.lru.Get(key); ok && img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}
	img := Resize(c.src, w, h, c.interp)
	c.lru.Add(key, img)
	return img
}

// Len returns the number of cached zoom levels.
func (c *Cache) Len() int { return c.lru.Len() }

// Keys returns the cached percentages from least to most recently used.
func (c *Cache) Keys() []int { return c.lru.Keys() }

// Contains reports whether the percentage for zoom is cached without
// touching its recency.
func (c *Cache) Contains(zoom float64) bool { return c.lru.Contains(Key(zoom)) }

// Purge drops every cached bitmap.
func (c *Cache) Purge() { c.lru.Purge() }
