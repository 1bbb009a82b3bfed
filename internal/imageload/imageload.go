// Package imageload decodes the image the viewer shows and reads its
// metadata for the info command.
package imageload

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"sort"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// DecodeError reports an image that could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Load reads and decodes the image at path. The result is always an RGBA
// copy starting at the origin.
func Load(path string) (*image.RGBA, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	defer f.Close()
	img, format, err := Decode(f)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	return img, format, nil
}

// Decode decodes any registered format from r into RGBA.
func Decode(r io.Reader) (*image.RGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, format, fmt.Errorf("image has no pixels")
	}
	return ToRGBA(img), format, nil
}

// ToRGBA returns img as an origin-based RGBA, converting when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Info is the metadata shown by the info command.
type Info struct {
	Path    string
	Format  string
	Width   int
	Height  int
	Size    int64
	ModTime time.Time
	EXIF    map[string]string
}

// EXIFKeys returns the EXIF field names in display order.
func (i *Info) EXIFKeys() []string {
	keys := make([]string, 0, len(i.EXIF))
	for k := range i.EXIF {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Inspect reads the dimensions and metadata of path without decoding the
// pixels.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	info := &Info{
		Path:    path,
		Format:  format,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
		EXIF:    map[string]string{},
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}
	// Most formats carry no EXIF block.
	if x, err := exif.Decode(f); err == nil {
		readEXIF(x, info.EXIF)
	}
	return info, nil
}

func readEXIF(x *exif.Exif, out map[string]string) {
	if tag, err := x.Get(exif.Model); err == nil {
		if s, err := tag.StringVal(); err == nil {
			out["Camera Model"] = s
		}
	}
	if tag, err := x.Get(exif.FNumber); err == nil {
		if n, d, err := tag.Rat2(0); err == nil && d != 0 {
			out["F-Number"] = fmt.Sprintf("f/%.1f", float64(n)/float64(d))
		}
	}
	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if n, d, err := tag.Rat2(0); err == nil {
			out["Exposure Time"] = fmt.Sprintf("%d/%d s", n, d)
		}
	}
	if t, err := x.DateTime(); err == nil {
		out["Taken"] = t.Format(time.RFC3339)
	}
}
