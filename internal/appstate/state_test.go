package appstate

import (
	"image"
	"testing"
)

func TestWindowSize(t *testing.T) {
	tests := []struct {
		name         string
		img          image.Rectangle
		w, h         int
		wantW, wantH int
	}{
		{"fits image and bar", image.Rect(0, 0, 640, 480), 0, 0, 640, 480 + bottomHeight},
		{"capped", image.Rect(0, 0, 4000, 3000), 0, 0, maxWindowWidth, maxWindowHeight},
		{"minimum", image.Rect(0, 0, 16, 16), 0, 0, minWindowWidth, minWindowHeight},
		{"explicit", image.Rect(0, 0, 16, 16), 500, 400, 500, 400},
	}
	for _, tt := range tests {
		a := New(WithImage(image.NewRGBA(tt.img)), WithWindowSize(tt.w, tt.h))
		if w, h := a.windowSize(); w != tt.wantW || h != tt.wantH {
			t.Errorf("%s: windowSize = %dx%d, want %dx%d", tt.name, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	a := New()
	if a.Title != "markview" || a.CacheSize != 16 || a.View.ZoomMax != 5 {
		t.Fatalf("defaults = %+v", a)
	}
	if err := a.Run(); err == nil {
		t.Fatal("Run without an image should fail")
	}
}
