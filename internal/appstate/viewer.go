package appstate

import (
	"image"
	"log"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/markview/internal/clipboard"
	"github.com/example/markview/internal/notify"
	"github.com/example/markview/internal/theme"
	"github.com/example/markview/internal/viewport"
)

const toastDuration = 2 * time.Second

// viewer routes window events to the controller and the overlay bar. It
// runs entirely on the event loop goroutine.
type viewer struct {
	ctrl     *viewport.Controller
	canvas   *frameCanvas
	bar      *overlayBar
	keys     keymap
	actions  map[string]func()
	notifier *notify.Notifier
	sched    viewport.Scheduler
	quit     bool
}

type viewerOptions struct {
	source    viewport.Size
	resampler viewport.Resampler
	theme     *theme.Theme
	view      viewport.Options
	notifier  *notify.Notifier
	sched     viewport.Scheduler
	present   func(*image.RGBA)
	clipboard viewport.Clipboard
}

func newViewer(o viewerOptions) *viewer {
	v := &viewer{keys: newKeymap(defaultShortcuts), notifier: o.notifier, sched: o.sched}
	v.bar = newOverlayBar(o.theme, []barAction{
		{label: "-", fn: func() { v.ctrl.ZoomOut() }},
		{label: "+", fn: func() { v.ctrl.ZoomIn() }},
		{label: "Fit", fn: func() { v.ctrl.Fit() }},
		{label: "Copy", fn: v.copyMarker},
	})
	v.canvas = newFrameCanvas(o.theme, v.bar, o.present)

	cb := o.clipboard
	if cb == nil {
		cb = clipboard.Writer{Done: v.copied}
	}
	opts := []viewport.Option{
		viewport.WithOverlay(v.bar),
		viewport.WithClipboard(cb),
		viewport.WithOptions(o.view),
	}
	if o.sched != nil {
		opts = append(opts, viewport.WithScheduler(o.sched))
	}
	v.ctrl = viewport.New(o.source, o.resampler, v.canvas, opts...)

	v.actions = map[string]func(){
		actionZoomIn:   v.ctrl.ZoomIn,
		actionZoomOut:  v.ctrl.ZoomOut,
		actionFit:      v.ctrl.Fit,
		actionCopy:     v.copyMarker,
		actionPanLeft:  func() { v.ctrl.Pan(-panStep, 0) },
		actionPanRight: func() { v.ctrl.Pan(panStep, 0) },
		actionPanUp:    func() { v.ctrl.Pan(0, -panStep) },
		actionPanDown:  func() { v.ctrl.Pan(0, panStep) },
		actionQuit:     func() { v.quit = true },
	}
	return v
}

func (v *viewer) handleSize(w, h int) {
	v.canvas.resize(w, h)
	v.ctrl.Resize(w, h)
}

func (v *viewer) handleMouse(e mouse.Event) {
	if dir := wheelDirection(e); dir != 0 {
		v.ctrl.Wheel(float64(e.X), float64(e.Y), dir)
		return
	}
	x, y := float64(e.X), float64(e.Y)
	p := image.Pt(int(e.X), int(e.Y))

	switch {
	case e.Direction == mouse.DirNone:
		if v.ctrl.Dragging() {
			v.ctrl.Drag(x, y)
			return
		}
		if v.bar.SetHover(v.bar.HitTest(p)) {
			v.ctrl.Redraw()
		}
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		if v.bar.Contains(p) {
			v.bar.Press(v.bar.HitTest(p))
			v.ctrl.Redraw()
			return
		}
		v.ctrl.Press(x, y)
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		if v.ctrl.Dragging() {
			v.ctrl.Release()
			return
		}
		if v.bar.pressed < 0 {
			return
		}
		v.bar.Activate(v.bar.HitTest(p))
		v.ctrl.Redraw()
	case e.Button == mouse.ButtonRight && e.Direction == mouse.DirPress:
		if v.bar.Contains(p) {
			return
		}
		v.ctrl.PlaceMarker(x, y)
	}
}

// handleKey runs the action bound to e and reports whether the viewer
// should close.
func (v *viewer) handleKey(e key.Event) bool {
	if action, ok := v.keys.lookup(e); ok {
		if fn, ok := v.actions[action]; ok {
			fn()
		}
	}
	return v.quit
}

func (v *viewer) copyMarker() { v.ctrl.CopyMarker() }

// copied reports the outcome of a clipboard write.
func (v *viewer) copied(text string, err error) {
	if err != nil {
		log.Printf("copy: %v", err)
		return
	}
	log.Print("copied marker coordinates")
	detail := text
	if m, ok := v.ctrl.Marker(); ok {
		detail = viewport.MarkerLabel(m)
	}
	v.notifier.Copy(detail)
	v.bar.Flash("copied "+detail, toastDuration)
	v.ctrl.Redraw()
	if v.sched != nil {
		v.sched.AfterFunc(toastDuration, v.ctrl.Redraw)
	}
}

// applyTheme switches palettes and redraws.
func (v *viewer) applyTheme(t *theme.Theme) {
	if t == nil {
		return
	}
	v.canvas.setTheme(t)
	v.ctrl.Redraw()
}
