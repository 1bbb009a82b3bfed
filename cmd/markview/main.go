package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/markview/internal/appstate"
	"github.com/example/markview/internal/config"
	"github.com/example/markview/internal/notify"
	"github.com/example/markview/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// runViewerFn opens the viewer window. Tests replace it to avoid a display.
var runViewerFn = func(st *appstate.AppState) error { return st.Run() }

type runnable interface{ Run() error }

type root struct {
	fs         *flag.FlagSet
	program    string
	notifier   *notify.Notifier
	config     *config.Config
	configPath string
	copyAlerts bool
	themeName  string
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) subcommand(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	path := loader.GetConfigPath()
	cfg := config.New()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		} else {
			cfg = loaded
		}
	}

	r := &root{
		fs:         flag.NewFlagSet("markview", flag.ExitOnError),
		program:    "markview",
		notifier:   notify.New(prefs),
		config:     cfg,
		configPath: path,
	}
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying coordinates")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

// selectedTheme picks the theme by precedence: flag, MARKVIEW_THEME, config.
func (r *root) selectedTheme(cfg *config.Config) string {
	if r.themeName != "" {
		return r.themeName
	}
	if env := strings.TrimSpace(os.Getenv("MARKVIEW_THEME")); env != "" {
		return env
	}
	return cfg.Theme
}

// resolveTheme returns the palette for the selected theme name, looking in
// the config's own theme sections before the theme loader.
func (r *root) resolveTheme(cfg *config.Config) *theme.Theme {
	name := r.selectedTheme(cfg)
	if t, ok := cfg.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "view":
		cmd, err = parseViewCmd(subArgs, r)
	case "info":
		cmd, err = parseInfoCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		if !looksLikePath(cmdName) {
			err = &UsageError{of: r}
			break
		}
		cmd, err = parseViewCmd(append([]string{"-file", cmdName}, subArgs...), r)
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// looksLikePath reports whether arg names an image rather than a command.
func looksLikePath(arg string) bool {
	if strings.ContainsRune(arg, os.PathSeparator) || filepath.Ext(arg) != "" {
		return true
	}
	_, err := os.Stat(arg)
	return err == nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
