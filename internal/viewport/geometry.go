// Package viewport maps between screen and original-image coordinates and
// owns the zoom, pan and marker state of a single displayed image.
package viewport

import "math"

// Size is a width and height in pixels.
type Size struct {
	Width, Height int
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Point is a position in screen or original-image space.
type Point struct {
	X, Y float64
}

// ViewState is the transform applied to the source image. OffsetX and
// OffsetY are the screen coordinates of the displayed image's center.
type ViewState struct {
	Zoom    float64
	OffsetX float64
	OffsetY float64
}

// Displayed returns the on-screen size of an image of size src at the
// current zoom.
func (v ViewState) Displayed(src Size) Size {
	return Size{
		Width:  int(math.Round(float64(src.Width) * v.Zoom)),
		Height: int(math.Round(float64(src.Height) * v.Zoom)),
	}
}

// TopLeft returns the screen position of the displayed image's top-left corner.
func (v ViewState) TopLeft(src Size) Point {
	d := v.Displayed(src)
	return Point{
		X: v.OffsetX - float64(d.Width)/2,
		Y: v.OffsetY - float64(d.Height)/2,
	}
}

// ToImage maps a screen position to original-image coordinates. Positions
// outside the image map to out-of-range coordinates.
func (v ViewState) ToImage(src Size, p Point) Point {
	tl := v.TopLeft(src)
	return Point{
		X: (p.X - tl.X) / v.Zoom,
		Y: (p.Y - tl.Y) / v.Zoom,
	}
}

// ToScreen is the inverse of ToImage.
func (v ViewState) ToScreen(src Size, p Point) Point {
	tl := v.TopLeft(src)
	return Point{
		X: tl.X + p.X*v.Zoom,
		Y: tl.Y + p.Y*v.Zoom,
	}
}

// FitZoom returns the largest zoom at which src fits entirely inside view.
func FitZoom(src, view Size) float64 {
	zx := float64(view.Width) / float64(src.Width)
	zy := float64(view.Height) / float64(src.Height)
	if zx < zy {
		return zx
	}
	return zy
}

// Percent returns zoom as a whole percentage.
func Percent(zoom float64) int {
	return int(math.Round(zoom * 100))
}

// EnforceBounds adjusts the image center (x, y) so the image cannot drift
// out of view. Axes are handled independently: an image that fits on an
// axis is centered on it, a larger one may pan but always covers the view.
func EnforceBounds(view, displayed Size, x, y float64) (float64, float64) {
	return clampAxis(x, view.Width, displayed.Width), clampAxis(y, view.Height, displayed.Height)
}

func clampAxis(offset float64, view, displayed int) float64 {
	v := float64(view)
	if displayed <= view {
		return v / 2
	}
	half := float64(displayed) / 2
	lo := math.Min(half, v-half)
	hi := math.Max(half, v-half)
	return clamp(offset, lo, hi)
}

// AnchorOffset returns the new center coordinate after zooming by ratio so
// that the point at cursor stays under the cursor.
func AnchorOffset(cursor, offset, ratio float64) float64 {
	d := cursor - offset
	return offset - d*(ratio-1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
