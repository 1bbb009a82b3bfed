package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	xdraw "golang.org/x/image/draw"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/markview/internal/notify"
	"github.com/example/markview/internal/resample"
	"github.com/example/markview/internal/theme"
	"github.com/example/markview/internal/viewport"
	"github.com/example/markview/internal/watch"
)

const (
	minWindowWidth  = 320
	minWindowHeight = 240
	maxWindowWidth  = 1280
	maxWindowHeight = 900
)

// AppState holds the configuration for one viewer window.
type AppState struct {
	Image     *image.RGBA
	Title     string
	Theme     *theme.Theme
	View      viewport.Options
	CacheSize int
	Interp    xdraw.Interpolator
	Notifier  *notify.Notifier
	Width     int
	Height    int

	reloadPath string
	reloadFn   func() (*theme.Theme, error)
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImage sets the image to show.
func WithImage(img *image.RGBA) Option { return func(a *AppState) { a.Image = img } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithTheme sets the starting palette.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithViewOptions sets the zoom tuning.
func WithViewOptions(o viewport.Options) Option { return func(a *AppState) { a.View = o } }

// WithCacheSize sets how many resampled zoom levels are kept.
func WithCacheSize(n int) Option { return func(a *AppState) { a.CacheSize = n } }

// WithInterpolator sets the resampling filter.
func WithInterpolator(i xdraw.Interpolator) Option { return func(a *AppState) { a.Interp = i } }

// WithNotifier sets the notifier used after a copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithWindowSize overrides the initial window size.
func WithWindowSize(w, h int) Option {
	return func(a *AppState) {
		a.Width = w
		a.Height = h
	}
}

// WithThemeReload watches path and applies the theme returned by load
// whenever the file changes.
func WithThemeReload(path string, load func() (*theme.Theme, error)) Option {
	return func(a *AppState) {
		a.reloadPath = path
		a.reloadFn = load
	}
}

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Title:     "markview",
		View:      viewport.DefaultOptions(),
		CacheSize: resample.DefaultCapacity,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run opens the window and blocks until it is closed.
func (a *AppState) Run() error {
	if a.Image == nil {
		return errors.New("no image to show")
	}
	var err error
	driver.Main(func(s screen.Screen) { err = a.Main(s) })
	return err
}

func (a *AppState) windowSize() (int, int) {
	w, h := a.Width, a.Height
	if w <= 0 || h <= 0 {
		b := a.Image.Bounds()
		w = max(minWindowWidth, min(b.Dx(), maxWindowWidth))
		h = max(minWindowHeight, min(b.Dy()+bottomHeight, maxWindowHeight))
	}
	return w, h
}

// Main runs the event loop on s.
func (a *AppState) Main(s screen.Screen) error {
	cache, err := resample.New(a.Image, a.CacheSize, a.Interp)
	if err != nil {
		return fmt.Errorf("viewer: %w", err)
	}

	width, height := a.windowSize()
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer w.Release()

	present := func(frame *image.RGBA) {
		b, err := s.NewBuffer(frame.Bounds().Size())
		if err != nil {
			log.Printf("new buffer: %v", err)
			return
		}
		defer b.Release()
		draw.Draw(b.RGBA(), b.Bounds(), frame, image.Point{}, draw.Src)
		w.Upload(image.Point{}, b, b.Bounds())
		w.Publish()
	}

	bounds := a.Image.Bounds()
	v := newViewer(viewerOptions{
		source:    viewport.Size{Width: bounds.Dx(), Height: bounds.Dy()},
		resampler: cache,
		theme:     a.Theme,
		view:      a.View,
		notifier:  a.Notifier,
		sched:     windowScheduler{send: w.Send},
		present:   present,
	})
	defer v.ctrl.Close()

	if a.reloadPath != "" && a.reloadFn != nil {
		watcher, err := watch.New(a.reloadPath)
		if err != nil {
			log.Printf("config reload disabled: %v", err)
		} else {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			defer watcher.Close()
			go func() {
				if err := watcher.Run(ctx, func() { w.Send(reloadEvent{}) }); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("watch: %v", err)
				}
			}()
		}
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case deferredEvent:
			e.fn()
		case reloadEvent:
			t, err := a.reloadFn()
			if err != nil {
				log.Printf("reload %s: %v", a.reloadPath, err)
				continue
			}
			v.applyTheme(t)
			log.Printf("reloaded %s", a.reloadPath)
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case size.Event:
			v.handleSize(e.WidthPx, e.HeightPx)
		case paint.Event:
			if v.ctrl.Ready() {
				v.canvas.Present()
			}
		case mouse.Event:
			v.handleMouse(e)
		case key.Event:
			if v.handleKey(e) {
				return nil
			}
		case error:
			log.Print(e)
		}
	}
}
