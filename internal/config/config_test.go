package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme

[view]
zoom_max = 8
zoom_step = 0.25
debounce_ms = 80
cache_size = 32
marker_radius = 7
filter = bilinear

[notify]
copy = true

[theme.my_custom_theme]
Background = #111111
Marker = #00FF00
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}

	want := View{ZoomMax: 8, ZoomStep: 0.25, DebounceMS: 80, CacheSize: 32, MarkerRadius: 7, Filter: "bilinear"}
	if cfg.View != want {
		t.Errorf("Unexpected view settings: %+v", cfg.View)
	}
	if cfg.View.Debounce() != 80*time.Millisecond {
		t.Errorf("Unexpected debounce: %v", cfg.View.Debounce())
	}

	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}

	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
	if theme.Marker.G != 0xFF {
		t.Errorf("Unexpected Marker color: %+v", theme.Marker)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("theme = dark\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.View != DefaultView() {
		t.Errorf("Expected default view, got %+v", cfg.View)
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to default to false")
	}
}

func TestParseInvalidView(t *testing.T) {
	for _, in := range []string{
		"[view]\nzoom_max = -1\n",
		"[view]\nzoom_step = abc\n",
		"[view]\ncache_size = 0\n",
		"[view]\ndebounce_ms = -5\n",
		"[notify]\ncopy = maybe\n",
	} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark

[view]
zoom_max = 4.5
debounce_ms = 30

[notify]
copy = true

[theme.custom]
Name = custom
Background = #000000
BarText = #FFFFFF80
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.View != cfg2.View {
		t.Errorf("View mismatch: %+v vs %+v", cfg.View, cfg2.View)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestParseTOML(t *testing.T) {
	input := `
theme = "dark"

[view]
zoom_max = 3.0
cache_size = 8

[notify]
copy = true

[theme_colors.night]
Background = "#050505"
`
	cfg, err := ParseTOML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTOML failed: %v", err)
	}
	if cfg.Theme != "dark" || !cfg.Notify.Copy {
		t.Errorf("Unexpected root values: %+v", cfg)
	}
	if cfg.View.ZoomMax != 3 || cfg.View.CacheSize != 8 {
		t.Errorf("Unexpected view: %+v", cfg.View)
	}
	if cfg.View.ZoomStep != DefaultView().ZoomStep {
		t.Errorf("Absent key should keep default, got %v", cfg.View.ZoomStep)
	}
	night := cfg.Themes["night"]
	if night == nil || night.Background.R != 5 {
		t.Fatalf("Unexpected night theme: %+v", night)
	}

	if _, err := ParseTOML(strings.NewReader("[view]\nzoom_step = 0.0\n")); err == nil {
		t.Error("expected error for zero zoom_step")
	}
}

func TestLoaderSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "markview")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	l := NewLoader("1.0", "")
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("expected no config, got %s", p)
	}
	cfg, err := l.Load()
	if err != nil || cfg.View != DefaultView() {
		t.Fatalf("expected defaults, got %+v, %v", cfg, err)
	}

	tomlPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(tomlPath, []byte("[view]\nzoom_max = 2.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.View.ZoomMax != 2.5 {
		t.Errorf("toml not loaded: %+v", cfg.View)
	}

	rcPath := filepath.Join(dir, "config.rc")
	if err := os.WriteFile(rcPath, []byte("[view]\nzoom_max = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p := l.GetConfigPath(); p != rcPath {
		t.Errorf("config.rc should win, got %s", p)
	}

	override := filepath.Join(t.TempDir(), "override.rc")
	if err := os.WriteFile(override, []byte("theme = x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p := NewLoader("1.0", override).GetConfigPath(); p != override {
		t.Errorf("override should win, got %s", p)
	}
}

func TestLoadFileReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.rc")
	if err := os.WriteFile(path, []byte("[view]\nzoom_max = nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error mentioning %s, got %v", path, err)
	}
}
