package image

import (
	"image"

	"golang.org/x/image/draw"
)

// Raster is a non-premultiplied RGBA pixel buffer with origin (0,0).
// It satisfies mask.Buffer.
type Raster struct {
	img *image.NRGBA
}

// NewRaster allocates a transparent w x h raster.
func NewRaster(w, h int) *Raster {
	return &Raster{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// FromImage copies any image into a Raster. The source is never retained.
func FromImage(src image.Image) *Raster {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return &Raster{img: dst}
}

// WrapNRGBA adopts img without copying when it is already zero-based and
// tightly packed, otherwise it copies.
func WrapNRGBA(img *image.NRGBA) *Raster {
	if img.Rect.Min == (image.Point{}) && img.Stride == 4*img.Rect.Dx() {
		return &Raster{img: img}
	}
	return FromImage(img)
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int {
	if r == nil || r.img == nil {
		return 0
	}
	return r.img.Rect.Dx()
}

// Height returns the raster height in pixels.
func (r *Raster) Height() int {
	if r == nil || r.img == nil {
		return 0
	}
	return r.img.Rect.Dy()
}

// Pixels returns a copy of the pixel data, 4 bytes per pixel, row-major.
func (r *Raster) Pixels() []byte {
	if r == nil || r.img == nil {
		return nil
	}
	out := make([]byte, len(r.img.Pix))
	copy(out, r.img.Pix)
	return out
}

// PutPixels overwrites the pixel data. Short input leaves the tail untouched.
func (r *Raster) PutPixels(pix []byte) {
	if r == nil || r.img == nil {
		return
	}
	copy(r.img.Pix, pix)
}

// Image exposes the underlying image for drawing. Callers must not mutate it.
func (r *Raster) Image() *image.NRGBA {
	if r == nil {
		return nil
	}
	return r.img
}

// Clone returns an independent copy.
func (r *Raster) Clone() *Raster {
	if r == nil || r.img == nil {
		return nil
	}
	dst := image.NewNRGBA(r.img.Rect)
	copy(dst.Pix, r.img.Pix)
	return &Raster{img: dst}
}
