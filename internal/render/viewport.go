package render

import (
	"math"

	"mockup-studio/pkg/geometry"
)

// Viewport maps the logical stage onto a device surface: a uniform fit,
// letterboxed and centered, with the device pixel ratio applied only here.
type Viewport struct {
	Stage      geometry.Size
	PixelRatio float64
	// Scale converts stage units to device pixels.
	Scale float64
	// OffsetX and OffsetY are the letterbox margins in device pixels.
	OffsetX float64
	OffsetY float64
	// Width and Height are the device surface size in pixels.
	Width  int
	Height int
}

// FitViewport fits stage into a w x h logical area at the given pixel ratio.
func FitViewport(stage geometry.Size, w, h, pixelRatio float64) Viewport {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	v := Viewport{
		Stage:      stage,
		PixelRatio: pixelRatio,
		Width:      int(math.Max(1, math.Round(w*pixelRatio))),
		Height:     int(math.Max(1, math.Round(h*pixelRatio))),
	}
	if stage.Width <= 0 || stage.Height <= 0 {
		v.Scale = 1
		return v
	}
	v.Scale = math.Min(float64(v.Width)/stage.Width, float64(v.Height)/stage.Height)
	v.OffsetX = (float64(v.Width) - stage.Width*v.Scale) / 2
	v.OffsetY = (float64(v.Height) - stage.Height*v.Scale) / 2
	return v
}

// ToStage converts a logical (pre pixel ratio) position to stage units.
func (v Viewport) ToStage(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: (p.X*v.PixelRatio - v.OffsetX) / v.Scale,
		Y: (p.Y*v.PixelRatio - v.OffsetY) / v.Scale,
	}
}

// ToLogical converts stage units back to a logical position.
func (v Viewport) ToLogical(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: (p.X*v.Scale + v.OffsetX) / v.PixelRatio,
		Y: (p.Y*v.Scale + v.OffsetY) / v.PixelRatio,
	}
}
