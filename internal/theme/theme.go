package theme

import (
	"image/color"
)

// Theme defines the colour palette of the viewer window.
type Theme struct {
	Name string

	// Canvas
	Background color.RGBA // Area around the image

	// Overlay bar
	BarBackground color.RGBA
	BarText       color.RGBA

	// Bar buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Marker ring
	Marker        color.RGBA
	MarkerOutline color.RGBA
}

// Default returns the hardcoded default theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{0, 0, 0, 255},
		BarBackground:         color.RGBA{220, 220, 220, 230},
		BarText:               color.RGBA{0, 0, 0, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		Marker:                color.RGBA{255, 0, 0, 255},
		MarkerOutline:         color.RGBA{255, 255, 255, 255},
	}
}

// Fields returns the colour field names in declaration order.
func Fields() []string {
	return []string{
		"Background",
		"BarBackground",
		"BarText",
		"ButtonBackground",
		"ButtonBackgroundHover",
		"ButtonBackgroundPress",
		"ButtonText",
		"ButtonBorder",
		"Marker",
		"MarkerOutline",
	}
}
