// Package placement computes where artwork may sit on the stage: scale caps,
// position and crop clamping, and the fit/center placement actions.
//
// Everything here is pure arithmetic over stage units and source pixels.
package placement

import (
	"mockup-studio/pkg/geometry"
)

const (
	// CropMin is the smallest crop edge, in source pixels.
	CropMin = 20.0

	// ClampEpsilonPx is subtracted from the scale cap so the scaled artwork
	// never lands exactly on the print-area edge.
	ClampEpsilonPx = 0.5

	// MinScale keeps the artwork visible and hittable however far it is
	// shrunk.
	MinScale = 0.01

	// FitPad is the fraction of the print area left empty by the scale cap.
	FitPad = 0.0
)

// Transform places the visible artwork on the stage: (TX, TY) is its center
// in stage units and Scale maps source pixels to stage units.
type Transform struct {
	TX    float64 `json:"tx"`
	TY    float64 `json:"ty"`
	Scale float64 `json:"scale"`
}

// Center returns the transform's center point.
func (t Transform) Center() geometry.Point2D {
	return geometry.Point2D{X: t.TX, Y: t.TY}
}

// CropRect is the visible part of the artwork in source pixel space.
type CropRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FullCrop returns a crop covering the whole image.
func FullCrop(imgW, imgH float64) CropRect {
	return CropRect{W: imgW, H: imgH}
}

// Rect returns the crop as a geometry.Rect.
func (c CropRect) Rect() geometry.Rect {
	return geometry.Rect{X: c.X, Y: c.Y, Width: c.W, Height: c.H}
}

// CenterX returns the horizontal center of the crop in source pixels.
func (c CropRect) CenterX() float64 { return c.X + c.W/2 }

// CenterY returns the vertical center of the crop in source pixels.
func (c CropRect) CenterY() float64 { return c.Y + c.H/2 }

// PrintArea is the printable rectangle on the stage.
type PrintArea struct {
	geometry.Rect

	// PixelsPerInch converts stage units to inches; zero when the blank
	// carries no calibration.
	PixelsPerInch float64 `json:"pixels_per_inch,omitempty"`

	// Calibrated is true when the rectangle came from blank metadata
	// rather than the static fallback.
	Calibrated bool `json:"calibrated"`
}

// HasPPI reports whether a physical size readout is possible.
func (a PrintArea) HasPPI() bool {
	return a.PixelsPerInch > 0
}

// VisibleBounds returns the stage-space box covered by the cropped artwork.
func VisibleBounds(t Transform, crop CropRect) geometry.Rect {
	return geometry.RectFromCenter(t.Center(), crop.W*t.Scale, crop.H*t.Scale)
}

// ImageToStage maps a source-pixel point to stage units under t and crop.
func ImageToStage(t Transform, crop CropRect, p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: t.TX + (p.X-crop.CenterX())*t.Scale,
		Y: t.TY + (p.Y-crop.CenterY())*t.Scale,
	}
}
