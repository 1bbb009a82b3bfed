package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/example/markview/internal/appstate"
	"github.com/example/markview/internal/config"
	"github.com/example/markview/internal/imageload"
	"github.com/example/markview/internal/notify"
	"github.com/example/markview/internal/resample"
	"github.com/example/markview/internal/theme"
	"github.com/example/markview/internal/viewport"
)

type viewCmd struct {
	file   string
	width  int
	height int
	watch  bool
	*root
	fs *flag.FlagSet
}

func (v *viewCmd) FlagSet() *flag.FlagSet {
	return v.fs
}

func (v *viewCmd) Program() string {
	return v.root.subcommand("view")
}

func parseViewCmd(args []string, r *root) (*viewCmd, error) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	c := &viewCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "image file to open")
	fs.StringVar(&r.themeName, "theme", r.themeName, "color theme to use")
	fs.BoolVar(&r.copyAlerts, "notify-copy", r.copyAlerts, "show a desktop notification after copying coordinates")
	fs.IntVar(&c.width, "width", 0, "initial window width (default: fit the image)")
	fs.IntVar(&c.height, "height", 0, "initial window height (default: fit the image)")
	fs.BoolVar(&c.watch, "watch-config", true, "reload the theme when the config file changes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && fs.NArg() == 1 {
		c.file = fs.Arg(0)
	}
	if c.file == "" {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func viewOptions(v config.View) viewport.Options {
	return viewport.Options{
		ZoomMax:      v.ZoomMax,
		ZoomStep:     v.ZoomStep,
		Debounce:     v.Debounce(),
		MarkerRadius: v.MarkerRadius,
	}
}

func (v *viewCmd) Run() error {
	img, _, err := imageload.Load(v.file)
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}
	cfg := v.root.config
	interp, err := resample.Filter(cfg.View.Filter)
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}
	v.root.notifier.Enable(notify.EventCopy, v.root.copyAlerts)

	opts := []appstate.Option{
		appstate.WithImage(img),
		appstate.WithTitle(fmt.Sprintf("%s - %s", v.root.program, filepath.Base(v.file))),
		appstate.WithTheme(v.root.resolveTheme(cfg)),
		appstate.WithViewOptions(viewOptions(cfg.View)),
		appstate.WithCacheSize(cfg.View.CacheSize),
		appstate.WithInterpolator(interp),
		appstate.WithNotifier(v.root.notifier),
	}
	if v.width > 0 && v.height > 0 {
		opts = append(opts, appstate.WithWindowSize(v.width, v.height))
	}
	if v.watch && v.root.configPath != "" {
		opts = append(opts, appstate.WithThemeReload(v.root.configPath, v.reloadTheme))
	}
	return runViewerFn(appstate.New(opts...))
}

// reloadTheme re-reads the config file and resolves the theme again.
func (v *viewCmd) reloadTheme() (*theme.Theme, error) {
	cfg, err := config.LoadFile(v.root.configPath)
	if err != nil {
		return nil, err
	}
	v.root.config = cfg
	return v.root.resolveTheme(cfg), nil
}
