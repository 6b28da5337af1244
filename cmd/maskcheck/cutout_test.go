package main

import (
	"image"
	"testing"

	studioimage "mockup-studio/internal/image"
)

func TestCutoutAppliesMaskWithoutTouchingSource(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	src := studioimage.WrapNRGBA(img)

	out := cutout(src, []uint8{0, 128})
	pix := out.Pixels()
	if pix[3] != 0 || pix[7] != 128 {
		t.Errorf("alphas = %d, %d; want 0, 128", pix[3], pix[7])
	}
	if pix[0] != 255 || pix[4] != 255 {
		t.Error("color channels should be kept")
	}
	if img.Pix[3] != 255 || img.Pix[7] != 255 {
		t.Error("source raster was modified")
	}
}
