package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/markview/internal/appstate"
	"github.com/example/markview/internal/config"
	"github.com/example/markview/internal/imageload"
	"github.com/example/markview/internal/theme"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MARKVIEW_THEME", "")
	return home
}

func stubViewer(t *testing.T) *[]*appstate.AppState {
	t.Helper()
	var runs []*appstate.AppState
	original := runViewerFn
	runViewerFn = func(st *appstate.AppState) error {
		runs = append(runs, st)
		return nil
	}
	t.Cleanup(func() { runViewerFn = original })
	return &runs
}

func writeImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	path := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestViewDecodeErrorIsFatal(t *testing.T) {
	isolateHome(t)
	runs := stubViewer(t)
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := newRoot().Run([]string{"view", "-file", path})
	var de *imageload.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if len(*runs) != 0 {
		t.Fatal("viewer opened for an undecodable image")
	}
}

func TestBarePathOpensViewer(t *testing.T) {
	isolateHome(t)
	runs := stubViewer(t)
	path := writeImage(t, 30, 20)
	if err := newRoot().Run([]string{path}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(*runs) != 1 {
		t.Fatalf("viewer runs = %d", len(*runs))
	}
	st := (*runs)[0]
	if st.Image.Bounds() != image.Rect(0, 0, 30, 20) {
		t.Fatalf("image bounds = %v", st.Image.Bounds())
	}
	if st.Title != "markview - shot.png" {
		t.Fatalf("title = %q", st.Title)
	}
	if st.CacheSize != 16 || st.View.ZoomMax != 5 || st.View.ZoomStep != 0.1 {
		t.Fatalf("defaults not applied: %+v", st.View)
	}
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	isolateHome(t)
	err := newRoot().Run([]string{"frobnicate"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "view") {
		t.Fatalf("help does not list commands: %q", uerr.Error())
	}
}

func TestViewRequiresFile(t *testing.T) {
	isolateHome(t)
	_, err := parseViewCmd(nil, newRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UsageError, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "-file") {
		t.Fatalf("view help missing flags: %q", uerr.Error())
	}
}

func TestThemePrecedence(t *testing.T) {
	isolateHome(t)
	cfg := config.New()
	cfg.Theme = "custom"
	custom := theme.Default()
	custom.Name = "Custom"
	cfg.Themes["custom"] = custom

	r := newRoot()
	if got := r.resolveTheme(cfg).Name; got != "Custom" {
		t.Fatalf("config theme = %q", got)
	}

	t.Setenv("MARKVIEW_THEME", "dark")
	if got := r.resolveTheme(cfg).Name; got != "Dark" {
		t.Fatalf("env theme = %q", got)
	}

	r.themeName = "high_contrast"
	if got := r.resolveTheme(cfg).Name; got != "High Contrast" {
		t.Fatalf("flag theme = %q", got)
	}

	r.themeName = "no-such-theme"
	if got := r.resolveTheme(cfg).Name; got != "Default" {
		t.Fatalf("missing theme fell back to %q", got)
	}
}

func TestViewReloadsThemeFromConfig(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "markview")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.rc")
	if err := os.WriteFile(cfgPath, []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	runs := stubViewer(t)
	r := newRoot()
	cmd, err := parseViewCmd([]string{"-file", writeImage(t, 4, 4)}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if got := (*runs)[0].Theme.Name; got != "Dark" {
		t.Fatalf("initial theme = %q", got)
	}

	if err := os.WriteFile(cfgPath, []byte("theme = high_contrast\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	th, err := cmd.reloadTheme()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if th.Name != "High Contrast" {
		t.Fatalf("reloaded theme = %q", th.Name)
	}
}

func TestInfoPrintsDetails(t *testing.T) {
	isolateHome(t)
	path := writeImage(t, 12, 7)
	cmd, err := parseInfoCmd([]string{"-file", path}, newRoot())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	cmd.out = &buf
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{"Format:", "png", "12x7", "bytes"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestInfoMissingFile(t *testing.T) {
	isolateHome(t)
	cmd, err := parseInfoCmd([]string{filepath.Join(t.TempDir(), "gone.png")}, newRoot())
	if err != nil {
		t.Fatal(err)
	}
	cmd.out = &bytes.Buffer{}
	var de *imageload.DecodeError
	if err := cmd.Run(); !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestConfigPrintAndSave(t *testing.T) {
	home := isolateHome(t)
	r := newRoot()
	cmd, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	cmd.out = &buf
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "zoom_max = 5") {
		t.Fatalf("print output:\n%s", buf.String())
	}

	cmd, err = parseConfigCmd([]string{"save"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("save: %v", err)
	}
	saved := filepath.Join(home, ".config", "markview", "config.rc")
	if _, err := config.LoadFile(saved); err != nil {
		t.Fatalf("saved config unreadable: %v", err)
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	v := &versionCmd{r: &root{program: "markview"}, out: &buf}
	if err := v.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "markview version ") {
		t.Fatalf("version output = %q", buf.String())
	}
}

func TestLooksLikePath(t *testing.T) {
	for arg, want := range map[string]bool{
		"shot.png":   true,
		"./shot":     true,
		"/tmp/x":     true,
		"frobnicate": false,
		"versionx":   false,
	} {
		if got := looksLikePath(arg); got != want {
			t.Errorf("looksLikePath(%q) = %v, want %v", arg, got, want)
		}
	}
}
