package placement

import (
	"math"

	"mockup-studio/pkg/geometry"
)

// MaxScaleForArea returns the largest uniform scale at which an imgW x imgH
// box fits inside area, shrunk by the pad fraction.
func MaxScaleForArea(imgW, imgH float64, area geometry.Rect, pad float64) float64 {
	if imgW <= 0 || imgH <= 0 {
		return 0
	}
	return math.Min(area.Width/imgW, area.Height/imgH) * (1 - pad)
}

// ClampScale caps scale at limitScale minus epsPx worth of source pixels.
// The epsilon is always subtracted; if that leaves nothing usable (sub-pixel
// images against a tiny limit) limitScale itself is used instead.
func ClampScale(scale, limitScale, epsPx, imgW float64) float64 {
	limit := limitScale
	if imgW > 0 {
		limit = limitScale - epsPx/imgW
	}
	if limit <= 0 {
		limit = limitScale
	}
	return math.Min(scale, limit)
}

// ClampPosition keeps the visW x visH box (source pixels, scaled by t.Scale)
// inside area. A box larger than the area collapses onto the area center.
func ClampPosition(t Transform, visW, visH float64, area geometry.Rect) Transform {
	halfW := visW * t.Scale / 2
	halfH := visH * t.Scale / 2
	t.TX = clampAxis(t.TX, area.X, area.Width, halfW)
	t.TY = clampAxis(t.TY, area.Y, area.Height, halfH)
	return t
}

func clampAxis(v, start, length, half float64) float64 {
	lo := start + half
	hi := start + length - half
	if lo > hi {
		return start + length/2
	}
	return math.Min(math.Max(v, lo), hi)
}

// ClampCrop resolves the crop size into [minSize, image] first and only then
// moves the origin into [0, image-size], so one call always yields a valid
// crop. minSize is capped at the image dimension for tiny images.
func ClampCrop(r CropRect, imgW, imgH, minSize float64) CropRect {
	r.W = clampSize(r.W, imgW, minSize)
	r.H = clampSize(r.H, imgH, minSize)
	r.X = math.Min(math.Max(r.X, 0), imgW-r.W)
	r.Y = math.Min(math.Max(r.Y, 0), imgH-r.H)
	return r
}

func clampSize(v, dim, minSize float64) float64 {
	lo := math.Min(minSize, dim)
	if math.IsNaN(v) {
		return dim
	}
	return math.Min(math.Max(v, lo), dim)
}

// Constrain applies the scale floor, the scale cap and the position clamp for
// the visible (cropped) artwork. Call it after every transform or crop
// mutation. The cap wins over MinScale when the area is tiny.
func Constrain(t Transform, crop CropRect, area geometry.Rect) Transform {
	if crop.W <= 0 || crop.H <= 0 {
		return t
	}
	if math.IsNaN(t.Scale) || t.Scale < MinScale {
		t.Scale = MinScale
	}
	limitScale := MaxScaleForArea(crop.W, crop.H, area, FitPad)
	t.Scale = ClampScale(t.Scale, limitScale, ClampEpsilonPx, crop.W)
	return ClampPosition(t, crop.W, crop.H, area)
}

// FitToStage returns the rectangle an imgW x imgH image occupies when scaled
// uniformly to fit the stage and centered, plus the scale used.
func FitToStage(imgW, imgH float64, stage geometry.Size) (geometry.Rect, float64) {
	if imgW <= 0 || imgH <= 0 {
		return geometry.Rect{}, 0
	}
	s := math.Min(stage.Width/imgW, stage.Height/imgH)
	w, h := imgW*s, imgH*s
	return geometry.Rect{X: (stage.Width - w) / 2, Y: (stage.Height - h) / 2, Width: w, Height: h}, s
}
