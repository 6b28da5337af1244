package placement

import (
	"mockup-studio/pkg/geometry"
)

// PlaceTopMaxWidth scales the artwork to the largest size the area allows
// and sits it at the top of the area, centered horizontally.
func PlaceTopMaxWidth(crop CropRect, area geometry.Rect) Transform {
	limitScale := MaxScaleForArea(crop.W, crop.H, area, FitPad)
	t := Transform{Scale: ClampScale(limitScale, limitScale, ClampEpsilonPx, crop.W)}
	t.TX = area.X + area.Width/2
	t.TY = area.Y + crop.H*t.Scale/2
	return Constrain(t, crop, area)
}

// Center moves the artwork to the middle of the area, keeping its scale.
func Center(t Transform, crop CropRect, area geometry.Rect) Transform {
	c := area.Center()
	t.TX, t.TY = c.X, c.Y
	return Constrain(t, crop, area)
}

// DefaultTransform is the resting pose used before any artwork is placed.
func DefaultTransform(stage geometry.Size) Transform {
	return Transform{TX: stage.Width * 0.5, TY: stage.Height * 0.45, Scale: 0.5}
}

// SizeInches returns the printed width and height of the visible artwork.
// ok is false when the area has no pixels-per-inch calibration.
func SizeInches(t Transform, crop CropRect, area PrintArea) (w, h float64, ok bool) {
	if !area.HasPPI() || crop.W <= 0 || crop.H <= 0 {
		return 0, 0, false
	}
	return crop.W * t.Scale / area.PixelsPerInch, crop.H * t.Scale / area.PixelsPerInch, true
}
