package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/markview/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Copy bool
}

// View holds the zoom engine and rendering settings.
type View struct {
	ZoomMax      float64
	ZoomStep     float64
	DebounceMS   int
	CacheSize    int
	MarkerRadius float64
	Filter       string
}

// Debounce returns DebounceMS as a duration.
func (v View) Debounce() time.Duration {
	return time.Duration(v.DebounceMS) * time.Millisecond
}

// Config holds the application configuration.
type Config struct {
	Theme  string
	View   View
	Notify Notify
	Themes map[string]*theme.Theme
}

// DefaultView returns the stock view settings.
func DefaultView() View {
	return View{
		ZoomMax:      5.0,
		ZoomStep:     0.1,
		DebounceMS:   50,
		CacheSize:    16,
		MarkerRadius: 5,
		Filter:       "catmullrom",
	}
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // Default to empty to allow fallback to Env/Default
		View:   DefaultView(),
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
		sb.WriteString("\n")
	}

	sb.WriteString("[view]\n")
	fmt.Fprintf(&sb, "zoom_max = %g\n", c.View.ZoomMax)
	fmt.Fprintf(&sb, "zoom_step = %g\n", c.View.ZoomStep)
	fmt.Fprintf(&sb, "debounce_ms = %d\n", c.View.DebounceMS)
	fmt.Fprintf(&sb, "cache_size = %d\n", c.View.CacheSize)
	fmt.Fprintf(&sb, "marker_radius = %g\n", c.View.MarkerRadius)
	if c.View.Filter != "" {
		fmt.Fprintf(&sb, "filter = %s\n", c.View.Filter)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, field := range theme.Fields() {
			col, _ := t.Get(field)
			fmt.Fprintf(&sb, "%s: %s\n", field, theme.Hex(col))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
