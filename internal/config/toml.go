package config

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/example/markview/internal/theme"
)

// tomlFile mirrors Config for TOML input. Pointers distinguish absent keys
// from zero values.
type tomlFile struct {
	Theme string `toml:"theme"`
	View  struct {
		ZoomMax      *float64 `toml:"zoom_max"`
		ZoomStep     *float64 `toml:"zoom_step"`
		DebounceMS   *int     `toml:"debounce_ms"`
		CacheSize    *int     `toml:"cache_size"`
		MarkerRadius *float64 `toml:"marker_radius"`
		Filter       string   `toml:"filter"`
	} `toml:"view"`
	Notify struct {
		Copy bool `toml:"copy"`
	} `toml:"notify"`
	Themes map[string]map[string]string `toml:"theme_colors"`
}

// ParseTOML reads configuration in TOML form. Themes live under
// [theme_colors.NAME] because "theme" is the selected theme's name.
func ParseTOML(r io.Reader) (*Config, error) {
	var f tomlFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}

	cfg := New()
	cfg.Theme = f.Theme
	cfg.Notify.Copy = f.Notify.Copy
	if f.View.Filter != "" {
		cfg.View.Filter = f.View.Filter
	}

	floats := []struct {
		key string
		src *float64
		dst *float64
	}{
		{"zoom_max", f.View.ZoomMax, &cfg.View.ZoomMax},
		{"zoom_step", f.View.ZoomStep, &cfg.View.ZoomStep},
		{"marker_radius", f.View.MarkerRadius, &cfg.View.MarkerRadius},
	}
	for _, fl := range floats {
		if fl.src == nil {
			continue
		}
		if !(*fl.src > 0) {
			return nil, fmt.Errorf("error in section [view]: invalid value for key %s: must be positive", fl.key)
		}
		*fl.dst = *fl.src
	}
	if f.View.DebounceMS != nil {
		if *f.View.DebounceMS < 0 {
			return nil, fmt.Errorf("error in section [view]: invalid value for key debounce_ms: must not be negative")
		}
		cfg.View.DebounceMS = *f.View.DebounceMS
	}
	if f.View.CacheSize != nil {
		if *f.View.CacheSize <= 0 {
			return nil, fmt.Errorf("error in section [view]: invalid value for key cache_size: must be positive")
		}
		cfg.View.CacheSize = *f.View.CacheSize
	}

	for name, fields := range f.Themes {
		t := theme.Default()
		t.Name = name
		for k, v := range fields {
			if err := t.Set(k, v); err != nil {
				return nil, fmt.Errorf("error in section [theme_colors.%s]: %w", name, err)
			}
		}
		cfg.Themes[name] = t
	}
	return cfg, nil
}
