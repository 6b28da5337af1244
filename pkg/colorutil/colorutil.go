// Package colorutil provides shared color utilities for the mockup editor.
package colorutil

import (
	"fmt"
	"image/color"
)

// Common overlay colors used throughout the application.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	GuideGray = color.RGBA{R: 140, G: 140, B: 140, A: 242}
	HandleInk = color.RGBA{R: 32, G: 32, B: 32, A: 255}
)

// RGB is an 8-bit color triple without alpha.
type RGB [3]uint8

// FromColor converts any color to an RGB triple, dropping alpha.
func FromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{n.R, n.G, n.B}
}

// NRGBA returns the opaque color for this triple.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// Sum returns r+g+b, a cheap brightness measure.
func (c RGB) Sum() int {
	return int(c[0]) + int(c[1]) + int(c[2])
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// DistanceSquared returns the squared Euclidean distance between two colors in RGB space.
func DistanceSquared(a, b RGB) int {
	dr := int(a[0]) - int(b[0])
	dg := int(a[1]) - int(b[1])
	db := int(a[2]) - int(b[2])
	return dr*dr + dg*dg + db*db
}

// ToleranceSquared maps a 0-100 tolerance percentage to a squared RGB distance:
//
//	(tol/100 * 255)^2
//
// The mapping is linear in per-channel distance, so equal steps of
// tolerance are not equal steps of perceived difference.
func ToleranceSquared(tolerance float64) float64 {
	t := tolerance / 100 * 255
	return t * t
}
