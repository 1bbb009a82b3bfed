package appstate

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/markview/internal/theme"
	"github.com/example/markview/internal/viewport"
)

// frameCanvas renders the view into an in-memory frame. present hands the
// finished frame to the window.
type frameCanvas struct {
	frame   *image.RGBA
	theme   *theme.Theme
	bar     *overlayBar
	present func(*image.RGBA)
}

var _ viewport.Canvas = (*frameCanvas)(nil)

func newFrameCanvas(t *theme.Theme, bar *overlayBar, present func(*image.RGBA)) *frameCanvas {
	if t == nil {
		t = theme.Default()
	}
	return &frameCanvas{frame: image.NewRGBA(image.Rect(0, 0, 1, 1)), theme: t, bar: bar, present: present}
}

// resize reallocates the frame for a window of w by h pixels.
func (c *frameCanvas) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if c.frame.Bounds().Dx() == w && c.frame.Bounds().Dy() == h {
		return
	}
	c.frame = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (c *frameCanvas) setTheme(t *theme.Theme) {
	c.theme = t
	if c.bar != nil {
		c.bar.setTheme(t)
	}
}

func (c *frameCanvas) Clear() {
	draw.Draw(c.frame, c.frame.Bounds(), &image.Uniform{c.theme.Background}, image.Point{}, draw.Src)
}

func (c *frameCanvas) DrawImageCentered(img image.Image, x, y float64) {
	b := img.Bounds()
	tl := image.Pt(int(math.Round(x-float64(b.Dx())/2)), int(math.Round(y-float64(b.Dy())/2)))
	draw.Draw(c.frame, image.Rectangle{Min: tl, Max: tl.Add(b.Size())}, img, b.Min, draw.Over)
}

func (c *frameCanvas) DrawRing(x, y, radius float64) {
	cx, cy, r := int(math.Round(x)), int(math.Round(y)), int(math.Round(radius))
	drawCircle(c.frame, cx, cy, r, c.theme.MarkerOutline, 4)
	drawCircle(c.frame, cx, cy, r, c.theme.Marker, 2)
}

func (c *frameCanvas) Present() {
	if c.bar != nil {
		c.bar.Draw(c.frame)
	}
	if c.present != nil {
		c.present(c.frame)
	}
}

// overlayBar is the strip along the bottom of the window holding the zoom
// buttons and the readouts.
type overlayBar struct {
	rect    image.Rectangle
	theme   *theme.Theme
	buttons []*CacheButton
	hover   int
	pressed int

	zoomLabel   string
	markerLabel string

	message      string
	messageUntil time.Time
	now          func() time.Time
}

var _ viewport.Overlay = (*overlayBar)(nil)

type barAction struct {
	label string
	fn    func()
}

func newOverlayBar(t *theme.Theme, actions []barAction) *overlayBar {
	if t == nil {
		t = theme.Default()
	}
	b := &overlayBar{theme: t, hover: -1, pressed: -1, now: time.Now}
	for _, a := range actions {
		b.buttons = append(b.buttons, &CacheButton{Button: &ActionButton{label: a.label, theme: t, onActivate: a.fn}})
	}
	return b
}

func (b *overlayBar) SetZoomLabel(s string)   { b.zoomLabel = s }
func (b *overlayBar) SetMarkerLabel(s string) { b.markerLabel = s }

// Anchor pins the bar to the bottom edge of a w by h window and lays the
// buttons out from the left.
func (b *overlayBar) Anchor(w, h int) {
	b.rect = image.Rect(0, h-bottomHeight, w, h)
	x := buttonGap
	for _, btn := range b.buttons {
		ab := btn.Button.(*ActionButton)
		bw := buttonWidth(ab.label)
		btn.SetRect(image.Rect(x, b.rect.Min.Y+2, x+bw, b.rect.Max.Y-2))
		x += bw + buttonGap
	}
}

// Contains reports whether p falls on the bar.
func (b *overlayBar) Contains(p image.Point) bool { return p.In(b.rect) }

// HitTest returns the index of the button under p or -1.
func (b *overlayBar) HitTest(p image.Point) int {
	for i, btn := range b.buttons {
		if p.In(btn.Rect()) {
			return i
		}
	}
	return -1
}

// SetHover records the hovered button and reports whether it changed.
func (b *overlayBar) SetHover(i int) bool {
	if b.hover == i {
		return false
	}
	b.hover = i
	return true
}

func (b *overlayBar) Press(i int) { b.pressed = i }

// Activate runs button i if it is still the pressed one.
func (b *overlayBar) Activate(i int) bool {
	pressed := b.pressed
	b.pressed = -1
	if i < 0 || i >= len(b.buttons) || i != pressed {
		return false
	}
	b.buttons[i].Activate()
	return true
}

// Flash shows msg over the view for d.
func (b *overlayBar) Flash(msg string, d time.Duration) {
	b.message = msg
	b.messageUntil = b.now().Add(d)
}

func (b *overlayBar) setTheme(t *theme.Theme) {
	b.theme = t
	for _, btn := range b.buttons {
		btn.Button.(*ActionButton).theme = t
		btn.Invalidate()
	}
}

func (b *overlayBar) Draw(dst *image.RGBA) {
	if b.rect.Empty() {
		return
	}
	draw.Draw(dst, b.rect, &image.Uniform{b.theme.BarBackground}, image.Point{}, draw.Src)
	x := b.rect.Min.X + buttonGap
	for i, btn := range b.buttons {
		state := StateDefault
		switch i {
		case b.pressed:
			state = StatePressed
		case b.hover:
			state = StateHover
		}
		btn.Draw(dst, state)
		x = btn.Rect().Max.X + buttonGap
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(b.theme.BarText), Face: basicfont.Face7x13}
	baseline := b.rect.Min.Y + 16
	d.Dot = fixed.P(x+buttonGap, baseline)
	d.DrawString(b.zoomLabel)
	if b.markerLabel != "" {
		wl := d.MeasureString(b.markerLabel).Ceil()
		d.Dot = fixed.P(b.rect.Max.X-wl-buttonGap*2, baseline)
		d.DrawString(b.markerLabel)
	}

	if b.message != "" && b.now().Before(b.messageUntil) {
		drawMessage(dst, b.message)
	}
}

func drawMessage(dst *image.RGBA, msg string) {
	bounds := dst.Bounds()
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (bounds.Dx() - wmsg) / 2
	py := (bounds.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	drawRect(dst, rect, color.Black, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
