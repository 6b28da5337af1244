package main

import (
	studioimage "mockup-studio/internal/image"
	"mockup-studio/internal/mask"
)

// cutout applies m to a copy of src and returns the result as a new raster.
func cutout(src *studioimage.Raster, m []uint8) *studioimage.Raster {
	pix := src.Pixels()
	mask.ApplyMask(pix, m)
	out := studioimage.NewRaster(src.Width(), src.Height())
	out.PutPixels(pix)
	return out
}
