// Package image provides image loading and the raster buffers the editor
// works on.
package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mockup-studio/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Side indicates which side of the garment an image belongs to.
type Side int

const (
	SideFront Side = iota
	SideBack
)

func (s Side) String() string {
	switch s {
	case SideBack:
		return "back"
	default:
		return "front"
	}
}

// ParseSide converts "front"/"back" (any case) to a Side. Anything else is front.
func ParseSide(s string) Side {
	if strings.EqualFold(strings.TrimSpace(s), "back") {
		return SideBack
	}
	return SideFront
}

// Layer is a decoded image together with where it came from.
type Layer struct {
	Path   string  // Original file path, empty for in-memory images
	Raster *Raster // Decoded pixels, converted to non-premultiplied RGBA
}

// Load decodes the image at path into a Layer.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	layer, err := Decode(file)
	if err != nil {
		return nil, err
	}
	layer.Path = path
	return layer, nil
}

// Decode reads any registered image format from r.
func Decode(r io.Reader) (*Layer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("failed to decode image: empty bounds")
	}
	if nrgba, ok := img.(*image.NRGBA); ok {
		return &Layer{Raster: WrapNRGBA(nrgba)}, nil
	}
	return &Layer{Raster: FromImage(img)}, nil
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l == nil || l.Raster == nil {
		return 0
	}
	return l.Raster.Width()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l == nil || l.Raster == nil {
		return 0
	}
	return l.Raster.Height()
}

// Size returns the image dimensions.
func (l *Layer) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(l.Width()),
		Height: float64(l.Height()),
	}
}

// Name returns the file name without directories.
func (l *Layer) Name() string {
	if l == nil || l.Path == "" {
		return ""
	}
	return filepath.Base(l.Path)
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
