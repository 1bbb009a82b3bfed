package appstate

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/markview/internal/resample"
	"github.com/example/markview/internal/theme"
	"github.com/example/markview/internal/viewport"
)

type scaledResampler struct{ src viewport.Size }

func (r scaledResampler) Resample(zoom float64) image.Image {
	w := int(math.Round(float64(r.src.Width) * zoom))
	h := int(math.Round(float64(r.src.Height) * zoom))
	if w <= 0 || h <= 0 {
		return nil
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

type recordingClipboard struct{ texts []string }

func (c *recordingClipboard) SetText(s string) { c.texts = append(c.texts, s) }

type stubTimer struct{ stopped bool }

func (t *stubTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type queueScheduler struct {
	pending []func()
	timers  []*stubTimer
}

func (s *queueScheduler) AfterFunc(d time.Duration, f func()) viewport.Timer {
	t := &stubTimer{}
	s.pending = append(s.pending, f)
	s.timers = append(s.timers, t)
	return t
}

// runLive fires every callback whose timer was not stopped.
func (s *queueScheduler) runLive() {
	pending, timers := s.pending, s.timers
	s.pending, s.timers = nil, nil
	for i, f := range pending {
		if !timers[i].stopped {
			f()
		}
	}
}

type testViewer struct {
	*viewer
	frames int
	clip   *recordingClipboard
	sched  *queueScheduler
}

func newTestViewer(t *testing.T, withScheduler bool) *testViewer {
	t.Helper()
	tv := &testViewer{clip: &recordingClipboard{}}
	src := viewport.Size{Width: 800, Height: 600}
	o := viewerOptions{
		source:    src,
		resampler: scaledResampler{src: src},
		view:      viewport.DefaultOptions(),
		present:   func(*image.RGBA) { tv.frames++ },
		clipboard: tv.clip,
	}
	if withScheduler {
		tv.sched = &queueScheduler{}
		o.sched = tv.sched
	}
	tv.viewer = newViewer(o)
	tv.handleSize(400, 300)
	return tv
}

func press(b mouse.Button, x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: b, Direction: mouse.DirPress}
}

func release(b mouse.Button, x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: b, Direction: mouse.DirRelease}
}

func move(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Direction: mouse.DirNone}
}

func runeKey(r rune, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Modifiers: mods, Direction: key.DirPress}
}

func codeKey(c key.Code) key.Event {
	return key.Event{Rune: -1, Code: c, Direction: key.DirPress}
}

func TestViewerResizeFits(t *testing.T) {
	tv := newTestViewer(t, false)
	if z := tv.ctrl.State().Zoom; z != 0.5 {
		t.Fatalf("zoom = %v, want 0.5", z)
	}
	if tv.bar.zoomLabel != "Zoom: 50%" {
		t.Fatalf("zoom label = %q", tv.bar.zoomLabel)
	}
	if tv.frames != 1 {
		t.Fatalf("frames = %d, want 1", tv.frames)
	}
	if b := tv.canvas.frame.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("frame = %v", b)
	}
}

func TestViewerWheelIsDebounced(t *testing.T) {
	tv := newTestViewer(t, true)
	before := tv.frames
	for i := 0; i < 3; i++ {
		tv.handleMouse(mouse.Event{X: 200, Y: 150, Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
	}
	if tv.frames != before {
		t.Fatalf("wheel drew %d frames before the timer fired", tv.frames-before)
	}
	if got := tv.ctrl.State().Zoom; math.Abs(got-0.8) > 1e-9 {
		t.Fatalf("zoom = %v, want 0.8", got)
	}
	tv.sched.runLive()
	if tv.frames != before+1 {
		t.Fatalf("frames = %d, want %d", tv.frames, before+1)
	}
}

func TestViewerBarClickZoomsWithoutDragging(t *testing.T) {
	tv := newTestViewer(t, false)
	plus := tv.bar.buttons[1].Rect()
	c := plus.Min.Add(plus.Size().Div(2))
	tv.handleMouse(press(mouse.ButtonLeft, float32(c.X), float32(c.Y)))
	if tv.ctrl.Dragging() {
		t.Fatal("bar press started a drag")
	}
	tv.handleMouse(release(mouse.ButtonLeft, float32(c.X), float32(c.Y)))
	if got := tv.ctrl.State().Zoom; math.Abs(got-0.6) > 1e-9 {
		t.Fatalf("zoom = %v, want 0.6", got)
	}
	if tv.bar.zoomLabel != "Zoom: 60%" {
		t.Fatalf("zoom label = %q", tv.bar.zoomLabel)
	}
}

func TestViewerBarReleaseElsewhereDoesNothing(t *testing.T) {
	tv := newTestViewer(t, false)
	plus := tv.bar.buttons[1].Rect()
	tv.handleMouse(press(mouse.ButtonLeft, float32(plus.Min.X+1), float32(plus.Min.Y+1)))
	tv.handleMouse(release(mouse.ButtonLeft, 200, 100))
	if z := tv.ctrl.State().Zoom; z != 0.5 {
		t.Fatalf("zoom = %v, want 0.5", z)
	}
}

func TestViewerDragPans(t *testing.T) {
	tv := newTestViewer(t, false)
	tv.handleKey(runeKey('+', 0))
	tv.handleMouse(press(mouse.ButtonLeft, 100, 100))
	tv.handleMouse(move(120, 110))
	st := tv.ctrl.State()
	if st.OffsetX != 220 || st.OffsetY != 160 {
		t.Fatalf("offset = (%v, %v), want (220, 160)", st.OffsetX, st.OffsetY)
	}
	tv.handleMouse(release(mouse.ButtonLeft, 120, 110))
	if tv.ctrl.Dragging() {
		t.Fatal("still dragging after release")
	}
}

func TestViewerMarkerAndCopy(t *testing.T) {
	tv := newTestViewer(t, false)
	tv.handleKey(runeKey('c', 0))
	if len(tv.clip.texts) != 0 {
		t.Fatalf("copied without a marker: %v", tv.clip.texts)
	}
	tv.handleMouse(press(mouse.ButtonRight, 300, 75))
	if tv.bar.markerLabel != "X: 600.00  Y: 150.00" {
		t.Fatalf("marker label = %q", tv.bar.markerLabel)
	}
	tv.handleKey(runeKey('c', 0))
	tv.handleKey(runeKey(0x03, key.ModControl))
	if len(tv.clip.texts) != 2 || tv.clip.texts[0] != "600.00\t150.00" {
		t.Fatalf("clipboard = %q", tv.clip.texts)
	}
}

func TestViewerRightClickOnBarIgnored(t *testing.T) {
	tv := newTestViewer(t, false)
	tv.handleMouse(press(mouse.ButtonRight, 200, 290))
	if _, ok := tv.ctrl.Marker(); ok {
		t.Fatal("marker placed from the bar")
	}
}

func TestViewerKeys(t *testing.T) {
	tv := newTestViewer(t, false)
	tv.handleKey(runeKey('+', key.ModShift))
	tv.handleKey(codeKey(key.CodeRightArrow))
	if st := tv.ctrl.State(); st.OffsetX != 220 {
		t.Fatalf("offsetX = %v, want 220", st.OffsetX)
	}
	tv.handleKey(codeKey(key.CodeUpArrow))
	if st := tv.ctrl.State(); st.OffsetY != 130 {
		t.Fatalf("offsetY = %v, want 130", st.OffsetY)
	}
	tv.handleKey(runeKey('-', 0))
	if z := tv.ctrl.State().Zoom; z != 0.5 {
		t.Fatalf("zoom = %v, want 0.5", z)
	}
	tv.handleKey(runeKey('+', 0))
	tv.handleKey(runeKey('0', 0))
	if st := tv.ctrl.State(); st.Zoom != 0.5 || st.OffsetX != 200 || st.OffsetY != 150 {
		t.Fatalf("fit state = %+v", st)
	}
	if tv.handleKey(runeKey('x', 0)) {
		t.Fatal("unbound key quit")
	}
}

func TestViewerQuitKeys(t *testing.T) {
	for _, e := range []key.Event{runeKey('q', 0), runeKey('Q', key.ModShift), codeKey(key.CodeEscape)} {
		tv := newTestViewer(t, false)
		if !tv.handleKey(e) {
			t.Errorf("%v did not quit", e)
		}
	}
}

func TestViewerCopiedFlashes(t *testing.T) {
	tv := newTestViewer(t, true)
	tv.copied("", errors.New("no display"))
	if tv.bar.message != "" {
		t.Fatalf("failed copy flashed %q", tv.bar.message)
	}
	tv.handleMouse(press(mouse.ButtonRight, 300, 75))
	frames := tv.frames
	tv.copied("600.00\t150.00", nil)
	if tv.bar.message != "copied X: 600.00  Y: 150.00" {
		t.Fatalf("message = %q", tv.bar.message)
	}
	if tv.frames != frames+1 {
		t.Fatal("copy did not redraw")
	}
	if len(tv.sched.pending) != 1 {
		t.Fatalf("toast expiry not scheduled")
	}
}

func TestViewerApplyTheme(t *testing.T) {
	tv := newTestViewer(t, false)
	dark := theme.Default()
	dark.Background = color.RGBA{1, 2, 3, 255}
	tv.applyTheme(dark)
	if got := tv.canvas.frame.RGBAAt(0, 0); got != dark.Background {
		t.Fatalf("background = %v, want %v", got, dark.Background)
	}
	for _, b := range tv.bar.buttons {
		if b.Button.(*ActionButton).theme != dark {
			t.Fatal("button kept the old theme")
		}
	}
}

type recordingResampler struct {
	viewport.Resampler
	last image.Point
}

func (r *recordingResampler) Resample(zoom float64) image.Image {
	img := r.Resampler.Resample(zoom)
	if img != nil {
		r.last = img.Bounds().Size()
	}
	return img
}

func TestViewerResizeWithinPercentRedrawsAtDisplayedSize(t *testing.T) {
	cache, err := resample.New(image.NewRGBA(image.Rect(0, 0, 2000, 1000)), 4, xdraw.ApproxBiLinear)
	if err != nil {
		t.Fatal(err)
	}
	rec := &recordingResampler{Resampler: cache}
	v := newViewer(viewerOptions{
		source:    viewport.Size{Width: 2000, Height: 1000},
		resampler: rec,
		view:      viewport.DefaultOptions(),
	})
	for _, w := range []int{1000, 1008} {
		v.handleSize(w, 600)
		d := v.ctrl.Displayed()
		if rec.last != image.Pt(d.Width, d.Height) {
			t.Fatalf("width %d: drawn bitmap %v, displayed %+v", w, rec.last, d)
		}
	}
	if d := v.ctrl.Displayed(); d.Width != 1008 {
		t.Fatalf("displayed = %+v, want width 1008", d)
	}
}
