package viewport

import (
	"fmt"
	"image"
	"math"
	"time"
)

// Resampler produces the source image scaled by zoom.
type Resampler interface {
	Resample(zoom float64) image.Image
}

// Canvas is the drawing surface the controller renders into.
type Canvas interface {
	Clear()
	DrawImageCentered(img image.Image, x, y float64)
	DrawRing(x, y, radius float64)
	Present()
}

// Overlay shows the readouts and tracks the viewport size.
type Overlay interface {
	SetZoomLabel(string)
	SetMarkerLabel(string)
	Anchor(width, height int)
}

// Clipboard receives copied marker coordinates.
type Clipboard interface {
	SetText(string)
}

// Options tunes the zoom engine.
type Options struct {
	ZoomMax      float64
	ZoomStep     float64
	Debounce     time.Duration
	MarkerRadius float64
}

// DefaultOptions returns the stock tuning: 500% maximum, 0.1 steps, a 50ms
// wheel debounce and a 5px marker ring.
func DefaultOptions() Options {
	return Options{
		ZoomMax:      5.0,
		ZoomStep:     0.1,
		Debounce:     50 * time.Millisecond,
		MarkerRadius: 5,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.ZoomMax <= 0 || math.IsNaN(o.ZoomMax) {
		o.ZoomMax = d.ZoomMax
	}
	if o.ZoomStep <= 0 || math.IsNaN(o.ZoomStep) {
		o.ZoomStep = d.ZoomStep
	}
	if o.Debounce < 0 {
		o.Debounce = d.Debounce
	}
	if o.MarkerRadius <= 0 {
		o.MarkerRadius = d.MarkerRadius
	}
	return o
}

// Option configures a Controller.
type Option func(*Controller)

// WithOverlay attaches the readout overlay.
func WithOverlay(o Overlay) Option {
	return func(c *Controller) {
		if o != nil {
			c.overlay = o
		}
	}
}

// WithClipboard sets where CopyMarker writes.
func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) {
		if cb != nil {
			c.clipboard = cb
		}
	}
}

// WithScheduler enables debounced wheel redraws. Without one, wheel zoom
// redraws immediately.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithOptions overrides the zoom tuning.
func WithOptions(o Options) Option {
	return func(c *Controller) { c.opts = o.normalized() }
}

type noopOverlay struct{}

func (noopOverlay) SetZoomLabel(string)  {}
func (noopOverlay) SetMarkerLabel(string) {}
func (noopOverlay) Anchor(int, int)       {}

type noopClipboard struct{}

func (noopClipboard) SetText(string) {}

// Controller owns the view transform, the drag state and the marker. All
// methods must be called from one goroutine.
type Controller struct {
	source    Size
	resampler Resampler
	canvas    Canvas
	overlay   Overlay
	clipboard Clipboard
	sched     Scheduler
	opts      Options

	view    Size
	state   ViewState
	zoomMin float64
	ready   bool

	dragging bool
	anchor   Point

	marker    Point
	hasMarker bool

	redraw *Debouncer
}

// New returns a Controller for an image of the given size. The view is
// initialised by the first call to Resize.
func New(source Size, r Resampler, canvas Canvas, opts ...Option) *Controller {
	c := &Controller{
		source:    source,
		resampler: r,
		canvas:    canvas,
		overlay:   noopOverlay{},
		clipboard: noopClipboard{},
		opts:      DefaultOptions(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.sched != nil {
		c.redraw = NewDebouncer(c.sched, c.opts.Debounce, c.draw)
	}
	return c
}

// State returns the current transform.
func (c *Controller) State() ViewState { return c.state }

// Viewport returns the last viewport size passed to Resize.
func (c *Controller) Viewport() Size { return c.view }

// Source returns the image size.
func (c *Controller) Source() Size { return c.source }

// ZoomRange returns the current zoom clamp.
func (c *Controller) ZoomRange() (lo, hi float64) {
	return c.zoomMin, c.zoomMax()
}

// Displayed returns the on-screen image size at the current zoom.
func (c *Controller) Displayed() Size { return c.state.Displayed(c.source) }

// Ready reports whether a viewport size has been received.
func (c *Controller) Ready() bool { return c.ready }

// Dragging reports whether a pan is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Marker returns the marker in image coordinates.
func (c *Controller) Marker() (Point, bool) { return c.marker, c.hasMarker }

// RedrawPending reports whether a debounced redraw is waiting to run.
func (c *Controller) RedrawPending() bool {
	return c.redraw != nil && c.redraw.Pending()
}

// zoomMax never drops below the fit zoom, so an image smaller than the
// viewport by more than the maximum can still be shown whole.
func (c *Controller) zoomMax() float64 {
	return math.Max(c.opts.ZoomMax, c.zoomMin)
}

// Resize fits the image to a viewport of w by h and redraws.
func (c *Controller) Resize(w, h int) {
	view := Size{Width: w, Height: h}
	if view.Empty() || c.source.Empty() {
		return
	}
	c.view = view
	c.ready = true
	c.overlay.Anchor(w, h)
	c.fit()
}

// Fit re-runs fit-to-window at the current viewport size.
func (c *Controller) Fit() {
	if !c.ready {
		return
	}
	c.fit()
}

func (c *Controller) fit() {
	z := FitZoom(c.source, c.view)
	c.zoomMin = z
	c.state = ViewState{
		Zoom:    z,
		OffsetX: float64(c.view.Width) / 2,
		OffsetY: float64(c.view.Height) / 2,
	}
	c.updateZoomLabel()
	c.Redraw()
}

// ZoomIn raises the zoom by one step.
func (c *Controller) ZoomIn() { c.SetZoom(c.state.Zoom + c.opts.ZoomStep) }

// ZoomOut lowers the zoom by one step.
func (c *Controller) ZoomOut() { c.SetZoom(c.state.Zoom - c.opts.ZoomStep) }

// SetZoom sets the zoom, clamped to the allowed range, keeping the current
// center, and redraws immediately.
func (c *Controller) SetZoom(z float64) {
	if !c.applyZoom(z) {
		return
	}
	c.enforceBounds()
	c.updateZoomLabel()
	c.Redraw()
}

// Wheel zooms one step in the direction of dir (positive zooms in) around
// the cursor at (x, y). The redraw is debounced when a scheduler is set.
func (c *Controller) Wheel(x, y float64, dir int) {
	if dir == 0 || !c.ready {
		return
	}
	step := c.opts.ZoomStep
	if dir < 0 {
		step = -step
	}
	old := c.state
	if !c.applyZoom(old.Zoom + step) {
		return
	}
	r := c.state.Zoom / old.Zoom
	c.state.OffsetX = AnchorOffset(x, old.OffsetX, r)
	c.state.OffsetY = AnchorOffset(y, old.OffsetY, r)
	c.enforceBounds()
	c.updateZoomLabel()
	if c.redraw == nil {
		c.draw()
		return
	}
	c.redraw.Trigger()
}

// applyZoom commits the clamped zoom and reports whether it changed.
func (c *Controller) applyZoom(z float64) bool {
	if !c.ready || math.IsNaN(z) {
		return false
	}
	z = clamp(z, c.zoomMin, c.zoomMax())
	if z == c.state.Zoom {
		return false
	}
	c.state.Zoom = z
	return true
}

// Press starts a pan at (x, y).
func (c *Controller) Press(x, y float64) {
	if !c.ready {
		return
	}
	c.dragging = true
	c.anchor = Point{X: x, Y: y}
}

// Drag moves the image by the distance from the previous pointer position.
func (c *Controller) Drag(x, y float64) {
	if !c.dragging {
		return
	}
	dx, dy := x-c.anchor.X, y-c.anchor.Y
	c.anchor = Point{X: x, Y: y}
	c.Pan(dx, dy)
}

// Release ends a pan.
func (c *Controller) Release() { c.dragging = false }

// Pan shifts the image by (dx, dy) screen pixels and redraws immediately.
func (c *Controller) Pan(dx, dy float64) {
	if !c.ready {
		return
	}
	c.state.OffsetX += dx
	c.state.OffsetY += dy
	c.enforceBounds()
	c.Redraw()
}

func (c *Controller) enforceBounds() {
	c.state.OffsetX, c.state.OffsetY = EnforceBounds(c.view, c.Displayed(), c.state.OffsetX, c.state.OffsetY)
}

// PlaceMarker sets the marker under the screen position (x, y). Positions
// outside the image produce out-of-range coordinates.
func (c *Controller) PlaceMarker(x, y float64) {
	if !c.ready {
		return
	}
	c.marker = c.state.ToImage(c.source, Point{X: x, Y: y})
	c.hasMarker = true
	c.overlay.SetMarkerLabel(MarkerLabel(c.marker))
	c.Redraw()
}

// CopyMarker writes the marker to the clipboard and reports whether there
// was one to copy.
func (c *Controller) CopyMarker() bool {
	if !c.hasMarker {
		return false
	}
	c.clipboard.SetText(FormatMarker(c.marker))
	return true
}

// FormatMarker renders p as the clipboard text "x<TAB>y".
func FormatMarker(p Point) string {
	return fmt.Sprintf("%.2f\t%.2f", p.X, p.Y)
}

// MarkerLabel renders p for the coordinate readout.
func MarkerLabel(p Point) string {
	return fmt.Sprintf("X: %.2f  Y: %.2f", p.X, p.Y)
}

// ZoomLabel renders zoom for the zoom readout.
func ZoomLabel(zoom float64) string {
	return fmt.Sprintf("Zoom: %d%%", Percent(zoom))
}

func (c *Controller) updateZoomLabel() {
	c.overlay.SetZoomLabel(ZoomLabel(c.state.Zoom))
}

// Redraw renders the current state immediately, dropping any pending
// debounced redraw.
func (c *Controller) Redraw() {
	if c.redraw != nil {
		c.redraw.Cancel()
	}
	c.draw()
}

// Close drops any pending debounced redraw. The controller stays usable.
func (c *Controller) Close() {
	if c.redraw != nil {
		c.redraw.Cancel()
	}
}

func (c *Controller) draw() {
	if !c.ready {
		return
	}
	c.canvas.Clear()
	if img := c.resampler.Resample(c.state.Zoom); img != nil {
		c.canvas.DrawImageCentered(img, c.state.OffsetX, c.state.OffsetY)
	}
	if c.hasMarker {
		p := c.state.ToScreen(c.source, c.marker)
		c.canvas.DrawRing(p.X, p.Y, c.opts.MarkerRadius)
	}
	c.canvas.Present()
}
